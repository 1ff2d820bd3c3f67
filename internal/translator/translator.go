// Package translator provides the translation engine clients used by the
// handler: language identification and text translation.
package translator

import (
	"context"
	"errors"
	"fmt"

	"github.com/pricofy/assistant-bridge/internal/chunker"
)

// ErrTranslationMismatch is returned when the service does not answer with
// exactly one translation per input text.
var ErrTranslationMismatch = errors.New("translation count does not match input count")

// translateFunc translates one chunk of texts.
type translateFunc func(ctx context.Context, texts []string) ([]string, error)

// translateChunked splits texts into size-limited chunks, translates them in
// order and flattens the results. Chunks are sent one after another.
func translateChunked(ctx context.Context, texts []string, maxBytes int, fn translateFunc) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	chunks := chunker.ChunkBySize(texts, maxBytes)

	out := make([]string, 0, len(texts))
	for i, chunk := range chunks {
		result, err := fn(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d failed: %w", i+1, len(chunks), err)
		}

		if len(result) != len(chunk) {
			return nil, fmt.Errorf("%w: chunk %d sent %d texts, got %d",
				ErrTranslationMismatch, i+1, len(chunk), len(result))
		}

		out = append(out, result...)
	}

	return out, nil
}

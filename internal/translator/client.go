package translator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pricofy/assistant-bridge/internal/domain"
	"github.com/pricofy/assistant-bridge/internal/watson"
)

// Options configures the REST translation client.
type Options struct {
	URL             string
	Version         string
	HTTPClient      *http.Client
	MaxRequestBytes int
}

// Client talks to a language translator service instance over REST.
type Client struct {
	api      *watson.Client
	maxBytes int
}

type translateRequest struct {
	Text   []string `json:"text"`
	Source string   `json:"source"`
	Target string   `json:"target"`
}

type translateResponse struct {
	Translations []struct {
		Translation string `json:"translation"`
	} `json:"translations"`
}

// New creates a Client authenticated with apikey.
func New(opts Options, apikey string) (*Client, error) {
	api, err := watson.New(watson.Options{
		URL:        opts.URL,
		Version:    opts.Version,
		HTTPClient: opts.HTTPClient,
	}, apikey)
	if err != nil {
		return nil, err
	}

	return &Client{api: api, maxBytes: opts.MaxRequestBytes}, nil
}

// Identify returns the candidate languages of text, most likely first.
func (c *Client) Identify(ctx context.Context, text string) (*domain.Identification, error) {
	var res domain.Identification
	if err := c.api.Post(ctx, "/v3/identify", "text/plain", []byte(text), &res); err != nil {
		return nil, fmt.Errorf("identify failed: %w", err)
	}
	return &res, nil
}

// Translate translates texts from source to target, preserving order.
func (c *Client) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	return translateChunked(ctx, texts, c.maxBytes, func(ctx context.Context, chunk []string) ([]string, error) {
		var res translateResponse
		err := c.api.PostJSON(ctx, "/v3/translate", translateRequest{
			Text:   chunk,
			Source: source,
			Target: target,
		}, &res)
		if err != nil {
			return nil, fmt.Errorf("translate %s→%s failed: %w", source, target, err)
		}

		out := make([]string, 0, len(res.Translations))
		for _, t := range res.Translations {
			out = append(out, t.Translation)
		}
		return out, nil
	})
}

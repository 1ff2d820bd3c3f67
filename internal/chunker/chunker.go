// Package chunker splits translation batches so that each request stays under
// the translation service's request size limit.
package chunker

// DefaultMaxBytes is the request body limit of the translation service.
const DefaultMaxBytes = 50 << 10

// entryOverhead covers the quotes and separator around each text once it is
// encoded into the JSON "text" array.
const entryOverhead = 3

// EstimateBytes estimates how many request bytes text adds to a batch.
func EstimateBytes(text string) int {
	return len(text) + entryOverhead
}

// ChunkBySize splits texts into ordered chunks whose estimated size does not
// exceed maxBytes. Texts are never split; a text larger than maxBytes is sent
// alone in its own chunk. Concatenating the chunks yields texts unchanged.
func ChunkBySize(texts []string, maxBytes int) [][]string {
	if len(texts) == 0 {
		return nil
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	var (
		chunks  [][]string
		current []string
		size    int
	)

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
			size = 0
		}
	}

	for _, text := range texts {
		n := EstimateBytes(text)

		if n > maxBytes {
			flush()
			chunks = append(chunks, []string{text})
			continue
		}

		if size+n > maxBytes {
			flush()
		}

		current = append(current, text)
		size += n
	}

	flush()

	return chunks
}

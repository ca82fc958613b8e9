package chunker

import (
	"strconv"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// DefaultChunkSize is the maximum chunk length in characters.
const DefaultChunkSize = 1000

// FixedChunker splits text into consecutive, non-overlapping chunks of at most size characters.
// Characters are runes, so multi-byte text is never cut mid-codepoint.
type FixedChunker struct {
	size int
}

// NewFixedChunker creates a chunker. Non-positive sizes fall back to DefaultChunkSize.
func NewFixedChunker(size int) *FixedChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &FixedChunker{size: size}
}

// Size returns the configured chunk size.
func (c *FixedChunker) Size() int { return c.size }

// Chunk splits a document. Empty content yields no chunks.
func (c *FixedChunker) Chunk(document domain.Document) []domain.Chunk {
	runes := []rune(document.Content)
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, (len(runes)+c.size-1)/c.size)
	for start, idx := 0, 0; start < len(runes); start, idx = start+c.size, idx+1 {
		end := min(start+c.size, len(runes))
		chunks = append(chunks, domain.Chunk{
			ID:     document.Source + ":" + strconv.Itoa(idx),
			Source: document.Source,
			Index:  idx,
			Text:   string(runes[start:end]),
		})
	}
	return chunks
}

// ChunkAll splits documents in order.
func (c *FixedChunker) ChunkAll(documents []domain.Document) []domain.Chunk {
	var all []domain.Chunk
	for _, d := range documents {
		all = append(all, c.Chunk(d)...)
	}
	return all
}

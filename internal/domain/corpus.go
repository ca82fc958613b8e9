package domain

// DefaultResponse is used when the answers corpus carries no default_response field.
const DefaultResponse = "I apologize, but I don't have enough information to answer that question."

// Document is the raw text of one corpus source. Immutable once loaded.
type Document struct {
	Source  string
	Content string
}

// Chunk is a contiguous, non-overlapping span of a Document's text.
// Concatenating a Document's chunks by Index reproduces its Content.
type Chunk struct {
	ID     string
	Source string
	Index  int
	Text   string
}

// ScoredChunk is a single retrieval hit.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrievalResult is ordered by descending similarity. It may hold fewer than K entries.
type RetrievalResult []ScoredChunk

// Chunks returns the chunks in ranked order.
func (r RetrievalResult) Chunks() []Chunk {
	out := make([]Chunk, len(r))
	for i, sc := range r {
		out[i] = sc.Chunk
	}
	return out
}

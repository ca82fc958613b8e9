// Package index holds the in-memory chunk vector index.
//
// An Index is built once over the whole corpus and is read-only afterwards,
// so Search is safe for concurrent use without locking.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// Index is a brute-force cosine similarity index over (chunk, vector) pairs.
type Index struct {
	embedder domain.Embedder
	chunks   []domain.Chunk
	vecs     [][]float32
	mags     []float64
	dim      int
}

// Build embeds every chunk and returns a searchable index.
// It either completes over the whole corpus or fails with domain.ErrIndexBuild.
// Embedders that implement domain.Preparer are prepared over the chunk texts first.
func Build(ctx context.Context, embedder domain.Embedder, chunks []domain.Chunk) (*Index, error) {
	idx := &Index{embedder: embedder}
	if len(chunks) == 0 {
		return idx, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	if p, ok := embedder.(domain.Preparer); ok {
		if err := p.Prepare(texts); err != nil {
			return nil, fmt.Errorf("%w: prepare embedder: %w", domain.ErrIndexBuild, err)
		}
	}

	res, err := domain.EmbedAll(ctx, embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed chunks: %w", domain.ErrIndexBuild, err)
	}
	if len(res.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks",
			domain.ErrIndexBuild, len(res.Embeddings), len(chunks))
	}

	dim := len(res.Embeddings[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty embedding for chunk %s", domain.ErrIndexBuild, chunks[0].ID)
	}
	mags := make([]float64, len(chunks))
	for i, v := range res.Embeddings {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: %w: chunk %s has %d dims, expected %d",
				domain.ErrIndexBuild, domain.ErrVectorDimMismatch, chunks[i].ID, len(v), dim)
		}
		mags[i] = magnitude(v)
	}

	idx.chunks = append([]domain.Chunk(nil), chunks...)
	idx.vecs = res.Embeddings
	idx.mags = mags
	idx.dim = dim
	return idx, nil
}

// Len returns the number of indexed chunks.
func (i *Index) Len() int { return len(i.chunks) }

// Dimension returns the vector dimensionality, 0 for an empty index.
func (i *Index) Dimension() int { return i.dim }

// Search embeds queryText and returns up to k chunks by descending cosine similarity.
// Equal scores keep insertion order. Failures wrap domain.ErrRetrieval.
func (i *Index) Search(ctx context.Context, queryText string, k int) (domain.RetrievalResult, error) {
	if len(i.chunks) == 0 || k <= 0 {
		return domain.RetrievalResult{}, nil
	}

	res, err := i.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrieval, err)
	}
	query := res.Embedding
	if len(query) != i.dim {
		return nil, fmt.Errorf("%w: %w: query has %d dims, index has %d",
			domain.ErrRetrieval, domain.ErrVectorDimMismatch, len(query), i.dim)
	}

	qm := magnitude(query)
	scored := make(domain.RetrievalResult, len(i.chunks))
	for j := range i.chunks {
		scored[j] = domain.ScoredChunk{Chunk: i.chunks[j], Score: cosine(query, qm, i.vecs[j], i.mags[j])}
	}

	sort.SliceStable(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// cosine returns 0 when either vector has zero magnitude.
func cosine(a []float32, am float64, b []float32, bm float64) float64 {
	if am == 0 || bm == 0 {
		return 0
	}
	s := dot(a, b) / (am * bm)
	if math.IsNaN(s) {
		return 0
	}
	return s
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func magnitude(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/metrics"
)

// DefaultTopK is the number of context chunks handed to the composer.
const DefaultTopK = 2

// Retriever returns the top-K chunks for a query.
type Retriever struct {
	searcher Searcher
	topK     int
	timeout  time.Duration
}

// New creates a Retriever. Non-positive topK falls back to DefaultTopK; zero timeout disables the deadline.
func New(searcher Searcher, topK int, timeout time.Duration) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{searcher: searcher, topK: topK, timeout: timeout}
}

// TopK returns the configured K.
func (r *Retriever) TopK() int { return r.topK }

// Retrieve returns context chunks in ranked order. All failures wrap domain.ErrRetrieval.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.Chunk, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := r.searcher.Search(ctx, query, r.topK)
	metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrRetrieval) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, ctx.Err())
	}
	return res.Chunks(), nil
}

package assistant

import (
	"context"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// Retriever returns ranked context chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]domain.Chunk, error)
}

// Composer produces a model answer from context chunks.
type Composer interface {
	Compose(ctx context.Context, question string, chunks []domain.Chunk) (string, error)
}

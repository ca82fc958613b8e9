package retrieval

import (
	"context"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// Searcher ranks indexed chunks against a query.
type Searcher interface {
	Search(ctx context.Context, queryText string, k int) (domain.RetrievalResult, error)
}

package assistant

import (
	"errors"
	"strings"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// Outcome labels how a reply was produced.
type Outcome string

const (
	// OutcomeAnswered is a grounded model answer.
	OutcomeAnswered Outcome = "answered"
	// OutcomeDefault is a model answer equal to the default response.
	OutcomeDefault Outcome = "default"
	// OutcomeEmptyAnswer is an empty or whitespace-only completion.
	OutcomeEmptyAnswer Outcome = "empty_answer"
	// OutcomeEmptyQuery is a message with no text after normalisation.
	OutcomeEmptyQuery Outcome = "empty_query"
	// OutcomeRetrievalError is a failed query embedding or search.
	OutcomeRetrievalError Outcome = "retrieval_error"
	// OutcomeGenerationError is a failed or timed out completion.
	OutcomeGenerationError Outcome = "generation_error"
	// OutcomeInternalError is any other failure, panics included.
	OutcomeInternalError Outcome = "internal_error"
)

// Policy converts composer output into the text shown to the user.
type Policy struct {
	defaultResponse string
}

// NewPolicy creates a Policy for the given default response.
func NewPolicy(defaultResponse string) Policy {
	return Policy{defaultResponse: defaultResponse}
}

// DefaultResponse returns the canned reply.
func (p Policy) DefaultResponse() string { return p.defaultResponse }

// Resolve returns the reply and how it was chosen. It never returns an error text.
func (p Policy) Resolve(answer string, err error) (string, Outcome) {
	switch {
	case errors.Is(err, domain.ErrEmptyAnswer):
		return p.defaultResponse, OutcomeEmptyAnswer
	case errors.Is(err, domain.ErrRetrieval):
		return p.defaultResponse, OutcomeRetrievalError
	case errors.Is(err, domain.ErrGeneration):
		return p.defaultResponse, OutcomeGenerationError
	case err != nil:
		return p.defaultResponse, OutcomeInternalError
	}

	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return p.defaultResponse, OutcomeEmptyAnswer
	}
	if trimmed == strings.TrimSpace(p.defaultResponse) {
		return p.defaultResponse, OutcomeDefault
	}
	return answer, OutcomeAnswered
}

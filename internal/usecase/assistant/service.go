package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/logger"
	"github.com/kailas-cloud/faqbot/internal/metrics"
)

// Service answers user messages. It owns the query-time pipeline and the fallback policy.
// Safe for concurrent use once constructed.
type Service struct {
	retriever Retriever
	composer  Composer
	policy    Policy
	logger    *zap.Logger
}

// New creates a Service. The index behind retriever must be fully built.
func New(retriever Retriever, composer Composer, defaultResponse string, logger *zap.Logger) *Service {
	return &Service{
		retriever: retriever,
		composer:  composer,
		policy:    NewPolicy(defaultResponse),
		logger:    logger,
	}
}

// DefaultResponse returns the canned reply used on every fallback.
func (s *Service) DefaultResponse() string { return s.policy.DefaultResponse() }

// HandleQuery answers one message. It always returns either a grounded answer
// or the default response, never an error text.
func (s *Service) HandleQuery(ctx context.Context, text string) (reply string) {
	query := normalize(text)

	ctx = logger.ContextWithLogger(ctx, logger.FromContextOr(ctx, s.logger))
	ctx, l := logger.Query(ctx, uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			s.record(l, query, OutcomeInternalError, fmt.Errorf("panic: %v", r))
			reply = s.policy.DefaultResponse()
		}
	}()

	if query == "" {
		s.record(l, query, OutcomeEmptyQuery, nil)
		return s.policy.DefaultResponse()
	}

	chunks, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		answer, outcome := s.policy.Resolve("", err)
		s.record(l, query, outcome, err)
		return answer
	}

	answer, err := s.composer.Compose(ctx, query, chunks)
	answer, outcome := s.policy.Resolve(answer, err)
	s.record(l, query, outcome, err)
	return answer
}

func (s *Service) record(l *zap.Logger, query string, outcome Outcome, err error) {
	metrics.AnswersTotal.WithLabelValues(string(outcome)).Inc()

	fields := []zap.Field{zap.String("query", query), zap.String("outcome", string(outcome))}
	switch outcome {
	case OutcomeAnswered:
		l.Debug("Query answered", fields...)
	case OutcomeDefault, OutcomeEmptyAnswer, OutcomeEmptyQuery:
		l.Info("Query fell back to default response", append(fields, zap.Error(err))...)
	default:
		l.Warn("Query failed, replying with default response", append(fields, zap.Error(err))...)
	}
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/logger"
)

// DefaultTemperature favours consistent, grounded answers.
const DefaultTemperature float32 = 0.5

// Composer turns retrieved context and a question into a model answer.
type Composer struct {
	completer       domain.Completer
	defaultResponse string
	temperature     float32
	timeout         time.Duration
}

// New creates a Composer. A zero timeout disables the per-call deadline.
func New(completer domain.Completer, defaultResponse string, temperature float32, timeout time.Duration) *Composer {
	return &Composer{
		completer:       completer,
		defaultResponse: defaultResponse,
		temperature:     temperature,
		timeout:         timeout,
	}
}

// Compose builds the prompt and returns the raw completion text.
// Provider failures, deadlines and whitespace-only output wrap domain.ErrGeneration.
// A completion that arrives is kept even if the deadline passes right after it.
func (c *Composer) Compose(ctx context.Context, question string, chunks []domain.Chunk) (string, error) {
	prompt := BuildPrompt(FormatContext(chunks), question, c.defaultResponse)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.completer.Complete(ctx, prompt, c.temperature)
	if err != nil {
		if errors.Is(err, domain.ErrGeneration) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	if strings.TrimSpace(res.Text) == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrEmptyAnswer)
	}

	logger.FromContext(ctx).Debug("Answer composed",
		zap.Int("context_chunks", len(chunks)),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("completion_tokens", res.CompletionTokens),
	)
	return res.Text, nil
}

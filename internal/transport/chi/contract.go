package chi

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	healthuc "github.com/kailas-cloud/faqbot/internal/usecase/health"
)

// Assistant answers user questions.
type Assistant interface {
	HandleQuery(ctx context.Context, text string) string
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// UpdateDispatcher processes Telegram updates in the background.
type UpdateDispatcher interface {
	Dispatch(ctx context.Context, update tgbotapi.Update)
}

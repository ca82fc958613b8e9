// Package telegram delivers assistant replies to Telegram chats.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/logger"
)

// DefaultReplyTimeout bounds the processing of one update.
const DefaultReplyTimeout = 60 * time.Second

var welcomeCommands = map[string]bool{"start": true, "restart": true}

// NewClient authenticates against the Bot API (getMe) and returns a client.
// endpoint is a format string with two %s verbs: token and method.
func NewClient(token, endpoint string, httpClient *http.Client) (*tgbotapi.BotAPI, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return bot, nil
}

// Handler turns webhook updates into replies.
type Handler struct {
	sender    Sender
	assistant Assistant
	welcome   string
	timeout   time.Duration
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewHandler creates a Handler. A non-positive timeout falls back to DefaultReplyTimeout.
func NewHandler(sender Sender, assistant Assistant, welcome string, timeout time.Duration, logger *zap.Logger) *Handler {
	if timeout <= 0 {
		timeout = DefaultReplyTimeout
	}
	return &Handler{
		sender:    sender,
		assistant: assistant,
		welcome:   welcome,
		timeout:   timeout,
		logger:    logger,
	}
}

// Dispatch handles the update in the background and returns immediately.
// The request context is detached so the reply outlives the webhook call.
func (h *Handler) Dispatch(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()

		if err := h.Handle(ctx, update); err != nil {
			logger.FromContextOr(ctx, h.logger).Error("telegram reply failed",
				zap.Int("update_id", update.UpdateID),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every dispatched update has been handled.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// Handle processes one update synchronously.
// /start and /restart get the welcome message, any other text is answered
// as a reply to the original message. Updates without text are ignored.
func (h *Handler) Handle(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	ctx = logger.ContextWithLogger(ctx, logger.FromContextOr(ctx, h.logger))
	ctx, l := logger.With(ctx, zap.Int64("chat_id", msg.Chat.ID), zap.Int("message_id", msg.MessageID))

	if msg.IsCommand() && welcomeCommands[msg.Command()] {
		l.Debug("welcome", zap.String("command", msg.Command()))
		return h.send(ctx, tgbotapi.NewMessage(msg.Chat.ID, h.welcome))
	}
	if msg.Text == "" {
		return nil
	}

	answer := h.assistant.HandleQuery(ctx, msg.Text)

	reply := tgbotapi.NewMessage(msg.Chat.ID, answer)
	reply.ReplyToMessageID = msg.MessageID
	return h.send(ctx, reply)
}

// send delivers m as Markdown. Text Telegram cannot parse as Markdown is resent once as plain text.
func (h *Handler) send(ctx context.Context, m tgbotapi.MessageConfig) error {
	m.ParseMode = tgbotapi.ModeMarkdown
	_, err := h.sender.Send(m)
	if isParseError(err) {
		logger.FromContext(ctx).Warn("Markdown rejected, resending as plain text", zap.Error(err))
		m.ParseMode = ""
		_, err = h.sender.Send(m)
	}
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", m.ChatID, err)
	}
	return nil
}

func isParseError(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "can't parse entities")
}

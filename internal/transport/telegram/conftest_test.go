package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// --- Mocks ---

type mockSender struct {
	mu     sync.Mutex
	sent   []tgbotapi.MessageConfig
	err    error
	sendFn func(m tgbotapi.MessageConfig) error
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return tgbotapi.Message{}, m.err
	}
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	if m.sendFn != nil {
		if err := m.sendFn(msg); err != nil {
			return tgbotapi.Message{}, err
		}
	}
	m.sent = append(m.sent, msg)
	return tgbotapi.Message{MessageID: len(m.sent)}, nil
}

func (m *mockSender) messages() []tgbotapi.MessageConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), m.sent...)
}

type mockAssistant struct {
	mu      sync.Mutex
	answer  string
	queries []string
	ctxErr  error
}

func (m *mockAssistant) HandleQuery(ctx context.Context, text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, text)
	m.ctxErr = ctx.Err()
	return m.answer
}

func (m *mockAssistant) received() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// --- Helpers ---

func textUpdate(chatID int64, messageID int, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: messageID,
		Message: &tgbotapi.Message{
			MessageID: messageID,
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
			Text:      text,
		},
	}
}

func commandUpdate(chatID int64, messageID int, command string) tgbotapi.Update {
	u := textUpdate(chatID, messageID, command)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}}
	return u
}

// botAPIServer emulates the Telegram Bot API for getMe and sendMessage.
type botAPIServer struct {
	*httptest.Server
	mu    sync.Mutex
	forms []map[string]string
}

func newBotAPIServer(t *testing.T, token string) *botAPIServer {
	t.Helper()
	s := &botAPIServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bot" + token + "/getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"MeloGuru","username":"meloguru_bot"}}`))
		case "/bot" + token + "/sendMessage":
			if err := r.ParseForm(); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			form := make(map[string]string)
			for k := range r.PostForm {
				form[k] = r.PostForm.Get(k)
			}
			s.mu.Lock()
			s.forms = append(s.forms, form)
			s.mu.Unlock()
			if form["parse_mode"] == tgbotapi.ModeMarkdown && strings.Count(form["text"], "_")%2 == 1 {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"ok":false,"error_code":400,` +
					`"description":"Bad Request: can't parse entities: Can't find end of the entity"}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":100,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *botAPIServer) endpoint() string {
	return s.URL + "/bot%s/%s"
}

func (s *botAPIServer) sent() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.forms...)
}

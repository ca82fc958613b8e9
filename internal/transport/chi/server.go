// Package chi exposes the assistant over HTTP: a JSON ask endpoint,
// the Telegram webhook, health and metrics.
package chi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/logger"
	healthuc "github.com/kailas-cloud/faqbot/internal/usecase/health"
)

const maxBodyBytes = 1 << 20

// Server holds the HTTP handlers.
type Server struct {
	assistant     Assistant
	health        HealthChecker
	updates       UpdateDispatcher
	webhookSecret string
	logger        *zap.Logger
}

// NewServer creates an HTTP server. updates may be nil, which leaves the webhook unmounted.
func NewServer(
	assistant Assistant,
	health HealthChecker,
	updates UpdateDispatcher,
	webhookSecret string,
	logger *zap.Logger,
) *Server {
	return &Server{
		assistant:     assistant,
		health:        health,
		updates:       updates,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// Mount registers the routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/v1/ask", s.Ask)
	if s.updates != nil && s.webhookSecret != "" {
		r.Post("/{secret}", s.Webhook)
	}
}

// Ask handles POST /v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{Answer: s.assistant.HandleQuery(r.Context(), req.Text)})
}

// Webhook handles POST /{secret}: it acknowledges the update at once and replies asynchronously.
func (s *Server) Webhook(w http.ResponseWriter, r *http.Request) {
	secret := chi.URLParam(r, "secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.webhookSecret)) != 1 {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "Not found")
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&update); err != nil {
		logger.FromContextOr(r.Context(), s.logger).Warn("invalid telegram update", zap.Error(err))
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid update")
		return
	}

	s.updates.Dispatch(r.Context(), update)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

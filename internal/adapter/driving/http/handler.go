package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Wyydra/callrelay/internal/core/port"
	"github.com/Wyydra/callrelay/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	Verifier    port.EventVerifier
	CallService *service.CallService
	Hub         *service.RelayHub
}

func NewHandler(verifier port.EventVerifier, callService *service.CallService, hub *service.RelayHub) *Handler {
	return &Handler{
		Verifier:    verifier,
		CallService: callService,
		Hub:         hub,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/", h.ServeWebhook)
	r.Get("/healthz", h.ServeHealth)
	r.Get("/calls", h.ServeCalls)

	return r
}

func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

type sessionDTO struct {
	SessionID string    `json:"session_id"`
	CallID    string    `json:"call_id"`
	State     string    `json:"state"`
	StartedAt time.Time `json:"started_at"`
}

func (h *Handler) ServeCalls(w http.ResponseWriter, r *http.Request) {
	sessions := h.Hub.Sessions()
	out := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionDTO{
			SessionID: s.ID.String(),
			CallID:    s.CallID.String(),
			State:     string(s.State),
			StartedAt: s.StartedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("Failed to encode sessions")
	}
}

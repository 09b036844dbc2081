package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Wyydra/callrelay/internal/core/domain"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const maxWebhookBody = 1 << 20

// ServeWebhook acknowledges provider events. Only a payload that fails
// verification or decoding is answered with 400.
func (h *Handler) ServeWebhook(w http.ResponseWriter, r *http.Request) {
	l := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		l.Warn().Err(err).Msg("Failed to read webhook body")
		http.Error(w, "Malformed event", http.StatusBadRequest)
		return
	}

	event, err := h.Verifier.Verify(body, r.Header)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			l.Warn().Err(err).Msg("Invalid signature")
			http.Error(w, "Invalid signature", http.StatusBadRequest)
		default:
			l.Warn().Err(err).Msg("Malformed event")
			http.Error(w, "Malformed event", http.StatusBadRequest)
		}
		return
	}

	// the accept call outlives a dropped webhook connection; its own
	// timeout bounds it. Failures are logged by the service and the
	// provider still gets its acknowledgement.
	_ = h.CallService.HandleEvent(context.WithoutCancel(r.Context()), event)

	w.WriteHeader(http.StatusOK)
}

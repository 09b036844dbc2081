package port

import (
	"net/http"

	"github.com/Wyydra/callrelay/internal/core/domain"
)

type EventVerifier interface {
	Verify(body []byte, headers http.Header) (domain.IncomingEvent, error)
}

package webhook

import (
	"fmt"
	"net/http"

	"github.com/Wyydra/callrelay/internal/core/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Verifier checks provider webhook signatures with the SDK and decodes the
// event itself, so odd SIP headers never fail an otherwise valid call.
type Verifier struct {
	client openai.Client
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		client: openai.NewClient(option.WithWebhookSecret(secret)),
	}
}

func (v *Verifier) Verify(body []byte, headers http.Header) (domain.IncomingEvent, error) {
	if err := v.client.Webhooks.VerifySignature(body, headers); err != nil {
		return domain.IncomingEvent{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	return decodeEvent(body)
}

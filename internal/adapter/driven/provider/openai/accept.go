package openai

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Wyydra/callrelay/internal/core/domain"
	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type SessionConfig struct {
	Model        string
	Voice        string
	Instructions string
}

type acceptRequest struct {
	Type         string      `json:"type"`
	Model        string      `json:"model"`
	Instructions string      `json:"instructions"`
	Audio        audioConfig `json:"audio"`
}

type audioConfig struct {
	Input  audioInput  `json:"input"`
	Output audioOutput `json:"output"`
}

type audioInput struct {
	Format        audioFormat   `json:"format"`
	TurnDetection turnDetection `json:"turn_detection"`
}

type audioOutput struct {
	Format audioFormat `json:"format"`
	Voice  string      `json:"voice"`
}

type audioFormat struct {
	Type string `json:"type"`
	Rate int    `json:"rate,omitempty"`
}

type turnDetection struct {
	Type string `json:"type"`
}

func newAcceptRequest(cfg SessionConfig) acceptRequest {
	return acceptRequest{
		Type:         "realtime",
		Model:        cfg.Model,
		Instructions: cfg.Instructions,
		Audio: audioConfig{
			Input: audioInput{
				Format:        audioFormat{Type: "audio/pcm", Rate: 24000},
				TurnDetection: turnDetection{Type: "semantic_vad"},
			},
			Output: audioOutput{
				Format: audioFormat{Type: "audio/pcmu"},
				Voice:  cfg.Voice,
			},
		},
	}
}

// AcceptError reports a non-2xx answer from the accept endpoint.
type AcceptError struct {
	CallID     domain.CallID
	StatusCode int
	Body       string
}

func (e *AcceptError) Error() string {
	return fmt.Sprintf("accept call %s: status %d: %s", e.CallID, e.StatusCode, e.Body)
}

func (e *AcceptError) Unwrap() error {
	return domain.ErrAcceptFailed
}

// Acceptor implements port.CallAcceptor against the realtime calls API.
// The SDK's own retries are disabled: a call is accepted at most once.
type Acceptor struct {
	client  oai.Client
	payload acceptRequest
}

func NewAcceptor(baseURL, apiKey string, session SessionConfig, timeout time.Duration) *Acceptor {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &Acceptor{
		client:  oai.NewClient(opts...),
		payload: newAcceptRequest(session),
	}
}

func acceptPath(callID domain.CallID) string {
	return "realtime/calls/" + url.PathEscape(callID.String()) + "/accept"
}

func (a *Acceptor) Accept(ctx context.Context, callID domain.CallID) error {
	var res []byte
	err := a.client.Post(ctx, acceptPath(callID), a.payload, &res)
	if err == nil {
		return nil
	}

	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		return &AcceptError{
			CallID:     callID,
			StatusCode: apiErr.StatusCode,
			Body:       strings.TrimSpace(apiErr.Message),
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrAcceptFailed, err)
}

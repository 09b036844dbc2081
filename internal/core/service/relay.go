package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Wyydra/callrelay/internal/core/domain"
	"github.com/Wyydra/callrelay/internal/core/port"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type greetingMessage struct {
	Type     string          `json:"type"`
	Response greetingPayload `json:"response"`
}

type greetingPayload struct {
	Instructions string `json:"instructions"`
}

func newGreeting(instructions string) greetingMessage {
	return greetingMessage{
		Type:     "response.create",
		Response: greetingPayload{Instructions: instructions},
	}
}

// RelayWorker drains the realtime stream of one accepted call.
type RelayWorker struct {
	callID   domain.CallID
	dialer   port.StreamDialer
	greeting string
	onState  func(domain.RelayState)
}

func NewRelayWorker(callID domain.CallID, dialer port.StreamDialer, greeting string) *RelayWorker {
	return &RelayWorker{
		callID:   callID,
		dialer:   dialer,
		greeting: greeting,
	}
}

func (w *RelayWorker) setState(s domain.RelayState) {
	if w.onState != nil {
		w.onState(s)
	}
}

// Run blocks until the stream ends and returns the terminal state.
// Cancelling ctx closes the stream.
func (w *RelayWorker) Run(ctx context.Context) domain.RelayState {
	l := log.With().Str("call_id", w.callID.String()).Logger()

	w.setState(domain.RelayConnecting)
	stream, err := w.dialer.Dial(ctx, w.callID)
	if err != nil {
		l.Error().Err(err).Msg("Failed to connect relay stream")
		w.setState(domain.RelayFailed)
		return domain.RelayFailed
	}

	stop := context.AfterFunc(ctx, func() {
		stream.Close()
	})
	defer func() {
		stop()
		if err := stream.Close(); err != nil {
			l.Debug().Err(err).Msg("Error closing relay stream")
		}
	}()

	w.setState(domain.RelayDraining)
	l.Info().Msg("Relay stream connected")

	if err := stream.SendJSON(newGreeting(w.greeting)); err != nil {
		l.Error().Err(err).Msg("Failed to send greeting")
		w.setState(domain.RelayFailed)
		return domain.RelayFailed
	}

	for {
		msg, err := stream.Receive()
		if err != nil {
			state := classifyStreamEnd(ctx, err)
			if state == domain.RelayClosed {
				l.Info().Err(err).Msg("Relay stream closed")
			} else {
				l.Error().Err(err).Msg("Relay stream failed")
			}
			w.setState(state)
			return state
		}
		logStreamMessage(l, msg)
	}
}

func classifyStreamEnd(ctx context.Context, err error) domain.RelayState {
	if ctx.Err() != nil || errors.Is(err, domain.ErrStreamClosed) {
		return domain.RelayClosed
	}
	return domain.RelayFailed
}

func logStreamMessage(l zerolog.Logger, msg []byte) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		l.Info().Bytes("payload", msg).Msg("Received non-JSON stream message")
		return
	}
	l.Info().Str("event_type", head.Type).RawJSON("payload", msg).Msg("Received stream event")
}

package service

import (
	"context"

	"github.com/Wyydra/callrelay/internal/core/domain"
	"github.com/Wyydra/callrelay/internal/core/port"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type CallService struct {
	acceptor port.CallAcceptor
	relays   port.RelaySpawner
}

func NewCallService(acceptor port.CallAcceptor, relays port.RelaySpawner) *CallService {
	return &CallService{
		acceptor: acceptor,
		relays:   relays,
	}
}

// HandleEvent reacts to a verified webhook event. Event types other than
// an incoming call are acknowledged and ignored.
func (s *CallService) HandleEvent(ctx context.Context, event domain.IncomingEvent) error {
	switch event.Type {
	case domain.EventCallIncoming:
		return s.handleIncomingCall(ctx, event)
	default:
		log.Debug().Str("event_id", event.ID).Str("type", string(event.Type)).Msg("Ignoring event")
		return nil
	}
}

func (s *CallService) handleIncomingCall(ctx context.Context, event domain.IncomingEvent) error {
	callID := event.Data.CallID
	l := log.With().Str("call_id", callID.String()).Str("event_id", event.ID).Logger()

	if len(event.Data.SIPHeaders) > 0 {
		info := domain.ExtractCallerInfo(event.Data.SIPHeaders)
		l.Info().Dict("caller", callerDict(info)).Msg("Incoming call")
	} else {
		l.Info().Msg("Incoming call")
	}

	// the relay must never start for a call the provider did not accept
	if err := s.acceptor.Accept(ctx, callID); err != nil {
		l.Error().Err(err).Msg("Failed to accept call")
		return err
	}

	session, err := s.relays.Spawn(callID)
	if err != nil {
		l.Error().Err(err).Msg("Failed to start relay")
		return err
	}

	l.Info().Str("session_id", session.ID.String()).Msg("Call accepted, relay started")
	return nil
}

func callerDict(info domain.CallerInfo) *zerolog.Event {
	d := zerolog.Dict()
	add := func(key, value string) {
		if value != "" {
			d.Str(key, value)
		}
	}
	add("caller_id", info.CallerID)
	add("caller_domain", info.CallerDomain)
	add("caller_ip", info.CallerIP)
	add("user_agent", info.UserAgent)
	add("sip_call_id", info.SIPCallID)
	add("destination", info.Destination)
	add("from", info.FromHeader)
	add("contact", info.ContactHeader)
	return d
}

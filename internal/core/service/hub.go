package service

import (
	"context"
	"sync"
	"time"

	"github.com/Wyydra/callrelay/internal/core/domain"
	"github.com/Wyydra/callrelay/internal/core/port"
	"github.com/rs/zerolog/log"
)

type RelayOptions struct {
	Greeting string
	// MaxDuration caps the lifetime of a single relay. Zero means no limit.
	MaxDuration time.Duration
}

// RelayHub runs one RelayWorker per accepted call and keeps track of them
// until they exit. Workers live on the hub's context, not the request's.
type RelayHub struct {
	mu       sync.Mutex
	sessions map[domain.CallID]*domain.CallSession
	stopped  bool

	dialer port.StreamDialer
	opts   RelayOptions

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRelayHub(dialer port.StreamDialer, opts RelayOptions) *RelayHub {
	ctx, cancel := context.WithCancel(context.Background())
	return &RelayHub{
		sessions: make(map[domain.CallID]*domain.CallSession),
		dialer:   dialer,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (h *RelayHub) Spawn(callID domain.CallID) (domain.CallSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return domain.CallSession{}, domain.ErrHubStopped
	}
	if _, ok := h.sessions[callID]; ok {
		return domain.CallSession{}, domain.ErrSessionExists
	}

	session := domain.NewCallSession(callID, time.Now())
	h.sessions[callID] = &session

	worker := NewRelayWorker(callID, h.dialer, h.opts.Greeting)
	worker.onState = func(s domain.RelayState) {
		h.setState(callID, s)
	}

	ctx, cancel := h.ctx, context.CancelFunc(func() {})
	if h.opts.MaxDuration > 0 {
		ctx, cancel = context.WithTimeout(h.ctx, h.opts.MaxDuration)
	}

	sessionID, startedAt := session.ID, session.StartedAt
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer cancel()

		state := worker.Run(ctx)
		h.remove(callID)
		log.Info().
			Str("call_id", callID.String()).
			Str("session_id", sessionID.String()).
			Str("state", string(state)).
			Dur("duration", time.Since(startedAt)).
			Msg("Relay finished")
	}()

	return session, nil
}

func (h *RelayHub) setState(callID domain.CallID, s domain.RelayState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if session, ok := h.sessions[callID]; ok {
		session.State = s
	}
}

func (h *RelayHub) remove(callID domain.CallID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, callID)
}

// Sessions returns a snapshot of the running relays.
func (h *RelayHub) Sessions() []domain.CallSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.CallSession, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, *s)
	}
	return out
}

// Stop cancels every running relay and waits for them to exit, or for ctx.
func (h *RelayHub) Stop(ctx context.Context) error {
	h.mu.Lock()
	h.stopped = true
	running := len(h.sessions)
	h.mu.Unlock()

	log.Info().Int("count", running).Msg("Stopping relay hub")
	h.cancel()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Wyydra/callrelay/internal/core/domain"
	"github.com/Wyydra/callrelay/internal/core/port"
)

type fakeStream struct {
	msgs   chan []byte
	endErr error

	mu   sync.Mutex
	sent []any

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		msgs:   make(chan []byte, 16),
		endErr: fmt.Errorf("remote went away: %w", domain.ErrStreamClosed),
		closed: make(chan struct{}),
	}
}

func (s *fakeStream) SendJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, v)
	return nil
}

func (s *fakeStream) Receive() ([]byte, error) {
	select {
	case m, ok := <-s.msgs:
		if !ok {
			return nil, s.endErr
		}
		return m, nil
	case <-s.closed:
		return nil, errors.New("use of closed network connection")
	}
}

func (s *fakeStream) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *fakeStream) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *fakeStream) sentMessages() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.sent...)
}

type fakeDialer struct {
	mu      sync.Mutex
	streams map[domain.CallID]*fakeStream
	errs    map[domain.CallID]error
	dialed  []domain.CallID
	onDial  func(domain.CallID)
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{
		streams: make(map[domain.CallID]*fakeStream),
		errs:    make(map[domain.CallID]error),
	}
}

func (d *fakeDialer) Dial(ctx context.Context, callID domain.CallID) (port.Stream, error) {
	d.mu.Lock()
	d.dialed = append(d.dialed, callID)
	onDial := d.onDial
	err := d.errs[callID]
	s, ok := d.streams[callID]
	if !ok && err == nil {
		s = newFakeStream()
		d.streams[callID] = s
	}
	d.mu.Unlock()

	if onDial != nil {
		onDial(callID)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *fakeDialer) stream(callID domain.CallID) *fakeStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streams[callID]
}

func (d *fakeDialer) dialedCalls() []domain.CallID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.CallID(nil), d.dialed...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func sessionState(h *RelayHub, callID domain.CallID) (domain.RelayState, bool) {
	for _, s := range h.Sessions() {
		if s.CallID == callID {
			return s.State, true
		}
	}
	return "", false
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Wyydra/callrelay/internal/core/domain"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeAcceptor struct {
	rec *recorder
	err error
}

func (a *fakeAcceptor) Accept(ctx context.Context, callID domain.CallID) error {
	a.rec.add("accept:" + callID.String())
	return a.err
}

func incoming(callID domain.CallID, headers ...domain.HeaderPair) domain.IncomingEvent {
	return domain.IncomingEvent{
		ID:   "evt_1",
		Type: domain.EventCallIncoming,
		Data: domain.CallData{CallID: callID, SIPHeaders: headers},
	}
}

func TestCallServiceAcceptsBeforeRelay(t *testing.T) {
	rec := &recorder{}
	dialer := newFakeDialer()
	dialer.onDial = func(id domain.CallID) { rec.add("dial:" + id.String()) }
	hub := NewRelayHub(dialer, RelayOptions{})
	defer hub.Stop(context.Background())

	svc := NewCallService(&fakeAcceptor{rec: rec}, hub)
	err := svc.HandleEvent(context.Background(), incoming("abc123",
		domain.HeaderPair{Name: "From", Value: "<sip:alice@example.com>;tag=1"},
	))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	waitFor(t, func() bool { return len(rec.list()) == 2 })
	got := rec.list()
	if got[0] != "accept:abc123" || got[1] != "dial:abc123" {
		t.Fatalf("expected accept before dial, got %v", got)
	}
}

func TestCallServiceAcceptFailureSkipsRelay(t *testing.T) {
	rec := &recorder{}
	dialer := newFakeDialer()
	hub := NewRelayHub(dialer, RelayOptions{})
	defer hub.Stop(context.Background())

	svc := NewCallService(&fakeAcceptor{rec: rec, err: domain.ErrAcceptFailed}, hub)
	err := svc.HandleEvent(context.Background(), incoming("abc123"))
	if !errors.Is(err, domain.ErrAcceptFailed) {
		t.Fatalf("expected ErrAcceptFailed, got %v", err)
	}
	if n := len(hub.Sessions()); n != 0 {
		t.Fatalf("expected no relay, got %d", n)
	}
	if calls := dialer.dialedCalls(); len(calls) != 0 {
		t.Fatalf("expected no dial, got %v", calls)
	}
}

func TestCallServiceIgnoresOtherEvents(t *testing.T) {
	rec := &recorder{}
	hub := NewRelayHub(newFakeDialer(), RelayOptions{})
	defer hub.Stop(context.Background())

	svc := NewCallService(&fakeAcceptor{rec: rec}, hub)
	event := domain.IncomingEvent{ID: "evt_2", Type: "realtime.call.ended", Data: domain.CallData{CallID: "abc123"}}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := rec.list(); len(got) != 0 {
		t.Fatalf("expected no side effects, got %v", got)
	}
	if n := len(hub.Sessions()); n != 0 {
		t.Fatalf("expected no relay, got %d", n)
	}
}

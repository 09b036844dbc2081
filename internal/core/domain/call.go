package domain

import "time"

type RelayState string

const (
	RelayConnecting RelayState = "connecting"
	RelayDraining   RelayState = "draining"
	RelayClosed     RelayState = "closed"
	RelayFailed     RelayState = "failed"
)

func (s RelayState) Terminal() bool {
	return s == RelayClosed || s == RelayFailed
}

// CallSession is one accepted call and the relay that serves it.
type CallSession struct {
	ID        SessionID
	CallID    CallID
	State     RelayState
	StartedAt time.Time
}

func NewCallSession(callID CallID, now time.Time) CallSession {
	return CallSession{
		ID:        NewSessionID(),
		CallID:    callID,
		State:     RelayConnecting,
		StartedAt: now,
	}
}

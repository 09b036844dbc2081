package domain

import "time"

type EventType string

const (
	EventCallIncoming EventType = "realtime.call.incoming"
)

// HeaderPair is one SIP header as delivered by the provider.
type HeaderPair struct {
	Name  string
	Value string
}

type CallData struct {
	CallID     CallID
	SIPHeaders []HeaderPair
}

type IncomingEvent struct {
	ID        string
	Type      EventType
	CreatedAt time.Time
	Data      CallData
}

func (e IncomingEvent) IsCallIncoming() bool {
	return e.Type == EventCallIncoming
}

package domain

import (
	"github.com/google/uuid"
)

type SessionID uuid.UUID

func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

func (id SessionID) String() string {
	return uuid.UUID(id).String()
}

// CallID is the provider-assigned identifier of a realtime call.
type CallID string

func (id CallID) String() string {
	return string(id)
}

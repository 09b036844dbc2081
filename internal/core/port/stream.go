package port

import (
	"context"

	"github.com/Wyydra/callrelay/internal/core/domain"
)

type StreamDialer interface {
	Dial(ctx context.Context, callID domain.CallID) (Stream, error)
}

// Stream is owned by a single relay worker.
type Stream interface {
	SendJSON(v any) error
	// Receive blocks until the next message. It returns an error wrapping
	// domain.ErrStreamClosed on a clean remote close.
	Receive() ([]byte, error)
	Close() error
}

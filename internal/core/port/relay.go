package port

import "github.com/Wyydra/callrelay/internal/core/domain"

type RelaySpawner interface {
	Spawn(callID domain.CallID) (domain.CallSession, error)
}

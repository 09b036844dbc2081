package port

import (
	"context"

	"github.com/Wyydra/callrelay/internal/core/domain"
)

type CallAcceptor interface {
	Accept(ctx context.Context, callID domain.CallID) error
}

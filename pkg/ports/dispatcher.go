package ports

import (
	"context"

	"github.com/arborui/arbor/pkg/domain"
)

// MessageDispatcher defines how allowed messages reach the host framework.
// The engine gates inbound messages; the host implements this interface to
// route the survivors to its property bindings, event subscriptions, and
// server-callable methods. Dropped messages never reach the dispatcher.
type MessageDispatcher interface {
	Dispatch(ctx context.Context, channel domain.Channel, msg domain.Message) error
}

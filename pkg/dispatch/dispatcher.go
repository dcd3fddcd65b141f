package dispatch

import (
	"context"

	"github.com/smartvault/smartvault/pkg/domain"
)

// Dispatcher is the one-way handoff from the restore front door to the
// worker. Dispatch returns once the request is accepted for delivery; no
// result ever flows back through it. The worker reports through the notifier.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *domain.RestoreRequest) error
}

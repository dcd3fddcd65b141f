package dispatch

import (
	"context"
	"sync"

	"github.com/smartvault/smartvault/pkg/domain"
)

// MemoryDispatcher records dispatched requests and optionally forwards them
// to an in-process handler. Used in tests and single-binary local mode.
type MemoryDispatcher struct {
	mu       sync.Mutex
	Err      error
	Requests []*domain.RestoreRequest

	// Forward, when set, is called synchronously with each request after
	// recording it.
	Forward func(ctx context.Context, req *domain.RestoreRequest)
}

func NewMemoryDispatcher() *MemoryDispatcher {
	return &MemoryDispatcher{}
}

func (d *MemoryDispatcher) Dispatch(ctx context.Context, req *domain.RestoreRequest) error {
	d.mu.Lock()
	if d.Err != nil {
		defer d.mu.Unlock()
		return d.Err
	}
	d.Requests = append(d.Requests, req)
	forward := d.Forward
	d.mu.Unlock()

	if forward != nil {
		forward(ctx, req)
	}
	return nil
}

func (d *MemoryDispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Requests)
}

var _ Dispatcher = (*MemoryDispatcher)(nil)

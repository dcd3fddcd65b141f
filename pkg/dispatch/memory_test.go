package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartvault/smartvault/pkg/domain"
)

func TestMemoryDispatcher_RecordsAndForwards(t *testing.T) {
	d := NewMemoryDispatcher()

	var forwarded *domain.RestoreRequest
	d.Forward = func(ctx context.Context, req *domain.RestoreRequest) {
		forwarded = req
	}

	req := &domain.RestoreRequest{SnapshotID: "snap-1"}
	require.NoError(t, d.Dispatch(context.Background(), req))
	require.Equal(t, 1, d.Len())
	require.Same(t, req, forwarded)
}

func TestMemoryDispatcher_Err(t *testing.T) {
	d := NewMemoryDispatcher()
	d.Err = errors.New("queue full")

	err := d.Dispatch(context.Background(), &domain.RestoreRequest{SnapshotID: "snap-1"})
	require.Error(t, err)
	require.Zero(t, d.Len())
}

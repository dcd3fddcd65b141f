package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/smartvault/smartvault/pkg/domain"
)

func TestRedisQueue_DispatchReceive(t *testing.T) {
	s := miniredis.RunT(t)

	q, err := NewRedisQueue(s.Addr(), 0, "test-restore")
	require.NoError(t, err)
	defer q.Close()

	ctx := context.Background()
	req := &domain.RestoreRequest{
		RequestID:        "req-1",
		SnapshotID:       "snap-123",
		AvailabilityZone: "us-east-1a",
	}

	require.NoError(t, q.Dispatch(ctx, req))

	received, err := q.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, req, received)
}

func TestRedisQueue_ReceiveHonorsContext(t *testing.T) {
	s := miniredis.RunT(t)

	q, err := NewRedisQueue(s.Addr(), 0, "test-restore")
	require.NoError(t, err)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = q.Receive(ctx)
	require.Error(t, err)
}

func TestRedisQueue_BadAddr(t *testing.T) {
	_, err := NewRedisQueue("127.0.0.1:0", 0, "test-restore")
	require.Error(t, err)
}

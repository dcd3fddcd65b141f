package cloud

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartvault/smartvault/pkg/domain"
)

func fastWait(attempts int) WaitConfig {
	return WaitConfig{Interval: time.Millisecond, MaxAttempts: attempts}
}

func TestWaitForSnapshots_AlreadyCompleted(t *testing.T) {
	f := NewFake("us-east-1")
	f.AddSnapshot(Snapshot{ID: "snap-1", State: SnapshotCompleted})
	f.AddSnapshot(Snapshot{ID: "snap-2", State: SnapshotCompleted})

	err := WaitForSnapshots(context.Background(), f, []domain.SnapshotID{"snap-1", "snap-2"}, fastWait(3))
	require.NoError(t, err)
}

func TestWaitForSnapshots_CompletesDuringWait(t *testing.T) {
	f := NewFake("us-east-1")
	f.AddSnapshot(Snapshot{ID: "snap-1", State: SnapshotPending})

	go func() {
		time.Sleep(5 * time.Millisecond)
		f.mu.Lock()
		f.Snapshots["snap-1"].State = SnapshotCompleted
		f.mu.Unlock()
	}()

	err := WaitForSnapshots(context.Background(), f, []domain.SnapshotID{"snap-1"}, fastWait(100))
	require.NoError(t, err)
}

func TestWaitForSnapshots_Timeout(t *testing.T) {
	f := NewFake("us-east-1")
	f.AddSnapshot(Snapshot{ID: "snap-1", State: SnapshotPending})

	err := WaitForSnapshots(context.Background(), f, []domain.SnapshotID{"snap-1"}, fastWait(4))
	require.Error(t, err)
	require.True(t, domain.IsTimeout(err))
	// One describe per attempt, no more.
	require.Equal(t, 4, f.DescribeSnapshotCalls)
}

func TestWaitForSnapshots_ErrorStateFailsFast(t *testing.T) {
	f := NewFake("us-east-1")
	f.AddSnapshot(Snapshot{ID: "snap-1", State: SnapshotError})

	err := WaitForSnapshots(context.Background(), f, []domain.SnapshotID{"snap-1"}, fastWait(10))
	require.Error(t, err)
	require.False(t, domain.IsTimeout(err))
	require.Equal(t, 1, f.DescribeSnapshotCalls)
}

func TestWaitForVolumeAvailable(t *testing.T) {
	f := NewFake("us-east-1")
	f.VolumeStates["vol-1"] = VolumeAvailable

	require.NoError(t, WaitForVolumeAvailable(context.Background(), f, "vol-1", fastWait(2)))

	f.VolumeStates["vol-2"] = "creating"
	err := WaitForVolumeAvailable(context.Background(), f, "vol-2", fastWait(2))
	require.True(t, domain.IsTimeout(err))
}

func TestWaitForInstanceRunning(t *testing.T) {
	f := NewFake("us-east-1")
	f.InstanceStates["i-1"] = InstanceRunning

	require.NoError(t, WaitForInstanceRunning(context.Background(), f, "i-1", fastWait(2)))

	f.InstanceStates["i-2"] = "pending"
	err := WaitForInstanceRunning(context.Background(), f, "i-2", fastWait(2))
	require.True(t, domain.IsTimeout(err))
}

func TestWaitUntil_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitUntil(ctx, fastWait(5), "test", func(context.Context) (bool, error) {
		return false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

package backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/domain"
)

func ownedSnapshot(id domain.SnapshotID, started time.Time) cloud.Snapshot {
	return cloud.Snapshot{
		ID:        id,
		State:     cloud.SnapshotCompleted,
		StartTime: started,
		Tags:      map[string]string{domain.TagCreatedBy: domain.CreatedByBackup},
	}
}

func TestRetire_AgeBased(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	env.orch.Now = func() time.Time { return now }

	env.primary.AddSnapshot(ownedSnapshot("snap-old", now.AddDate(0, 0, -10)))
	env.primary.AddSnapshot(ownedSnapshot("snap-new", now.AddDate(0, 0, -3)))

	deleted, err := env.orch.Retire(context.Background(), env.primary)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)
	require.Equal(t, []domain.SnapshotID{"snap-old"}, env.primary.Deleted)
}

func TestRetire_ExactCutoffIsRetained(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	env.orch.Now = func() time.Time { return now }
	cutoff := now.AddDate(0, 0, -env.orch.RetentionDays)

	env.primary.AddSnapshot(ownedSnapshot("snap-boundary", cutoff))
	env.primary.AddSnapshot(ownedSnapshot("snap-just-over", cutoff.Add(-time.Microsecond)))

	deleted, err := env.orch.Retire(context.Background(), env.primary)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)
	require.Equal(t, []domain.SnapshotID{"snap-just-over"}, env.primary.Deleted)
}

func TestRetire_IgnoresForeignSnapshots(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	env.orch.Now = func() time.Time { return now }

	foreign := cloud.Snapshot{
		ID:        "snap-foreign",
		StartTime: now.AddDate(0, 0, -30),
		Tags:      map[string]string{domain.TagCreatedBy: "SomeOtherTool"},
	}
	env.primary.AddSnapshot(foreign)

	deleted, err := env.orch.Retire(context.Background(), env.primary)
	require.NoError(t, err)
	require.Zero(t, deleted)
	require.Empty(t, env.primary.Deleted)
}

func TestRetire_DeleteFailureDoesNotAbortScan(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	env.orch.Now = func() time.Time { return now }

	env.primary.AddSnapshot(ownedSnapshot("snap-stuck", now.AddDate(0, 0, -10)))
	env.primary.AddSnapshot(ownedSnapshot("snap-old", now.AddDate(0, 0, -10)))
	env.primary.DeleteSnapshotErr["snap-stuck"] = errors.New("snapshot is in use")

	deleted, err := env.orch.Retire(context.Background(), env.primary)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)
}

func TestRetire_RegionsAreIndependent(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	env.orch.Now = func() time.Time { return now }

	env.primary.AddSnapshot(ownedSnapshot("snap-p", now.AddDate(0, 0, -10)))
	env.dr.AddSnapshot(ownedSnapshot("snap-d1", now.AddDate(0, 0, -10)))
	env.dr.AddSnapshot(ownedSnapshot("snap-d2", now.AddDate(0, 0, -10)))

	deletedPrimary, err := env.orch.Retire(context.Background(), env.primary)
	require.NoError(t, err)
	deletedDR, err := env.orch.Retire(context.Background(), env.dr)
	require.NoError(t, err)

	require.Equal(t, 1, deletedPrimary)
	require.Equal(t, 2, deletedDR)
}

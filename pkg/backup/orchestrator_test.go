package backup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartvault/smartvault/pkg/domain"
)

func TestRun_OneInstanceOneVolume(t *testing.T) {
	env := newTestEnv()
	env.primary.AddInstance("i-1", "running", backupTags(), "vol-a")

	report, err := env.orch.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Targets)
	require.Len(t, report.Created, 1)
	require.Len(t, report.Replicated, 1)

	msg, ok := env.notifier.Last()
	require.True(t, ok)
	require.Equal(t, "SmartVault Backup SUCCEEDED", msg.Subject)
	require.Contains(t, msg.Body, "Created 1 snapshots in us-east-1")
	require.Contains(t, msg.Body, "Initiated copy for 1 snapshots to us-west-2")
	require.Len(t, env.notifier.Messages, 1)
}

func TestRun_NoTargetsShortCircuits(t *testing.T) {
	env := newTestEnv()

	report, err := env.orch.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.Targets)
	require.Empty(t, report.Created)
	// Nothing happened, nothing to announce.
	require.Empty(t, env.notifier.Messages)
	require.Zero(t, env.keys.Calls)
}

func TestRun_AllCapturesFailingFailsCycle(t *testing.T) {
	env := newTestEnv()
	env.primary.AddInstance("i-1", "running", backupTags(), "vol-a")
	env.primary.CreateSnapshotErr["vol-a"] = errors.New("limit exceeded")

	_, err := env.orch.Run(context.Background())
	require.Error(t, err)

	msg, ok := env.notifier.Last()
	require.True(t, ok)
	require.Equal(t, "SmartVault Backup FAILED", msg.Subject)
	require.Len(t, env.notifier.Messages, 1)
}

func TestRun_BadKeyFailsCycleWithOneNotification(t *testing.T) {
	env := newTestEnv()
	env.primary.AddInstance("i-1", "running", backupTags(), "vol-a")
	env.keys.Err = domain.Ef(domain.KindAccess, "kms.DescribeKey", "denied")

	_, err := env.orch.Run(context.Background())
	require.Error(t, err)
	require.True(t, domain.IsConfig(err))

	msg, ok := env.notifier.Last()
	require.True(t, ok)
	require.Equal(t, "SmartVault Backup FAILED", msg.Subject)
	require.Len(t, env.notifier.Messages, 1)
	require.Empty(t, env.dr.CopyInputs)
}

func TestRun_RetiresBothRegions(t *testing.T) {
	env := newTestEnv()
	env.primary.AddInstance("i-1", "running", backupTags(), "vol-a")

	// Seed expired snapshots on both sides.
	old := env.orch.now().AddDate(0, 0, -30)
	env.primary.AddSnapshot(ownedSnapshot("snap-expired-p", old))
	env.dr.AddSnapshot(ownedSnapshot("snap-expired-d", old))

	report, err := env.orch.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.RetiredPrimary)
	require.Equal(t, 1, report.RetiredDR)
}

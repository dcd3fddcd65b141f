package backup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/domain"
)

func captureOne(t *testing.T, env *testEnv) domain.SnapshotID {
	t.Helper()
	env.primary.AddInstance("i-1", "running", backupTags(), "vol-a")
	created := env.orch.Capture(context.Background(), []domain.BackupTarget{{InstanceID: "i-1"}})
	require.Len(t, created, 1)
	return created[0]
}

func TestReplicate_KeyCheckRunsBeforeAnythingElse(t *testing.T) {
	env := newTestEnv()
	id := captureOne(t, env)
	env.keys.Err = domain.Ef(domain.KindAccess, "kms.DescribeKey", "denied")
	env.primary.DescribeSnapshotCalls = 0

	_, err := env.orch.Replicate(context.Background(), []domain.SnapshotID{id})
	require.Error(t, err)
	require.True(t, domain.IsConfig(err))
	require.Equal(t, 1, env.keys.Calls)
	// No wait polls and no copy requests were issued.
	require.Zero(t, env.primary.DescribeSnapshotCalls)
	require.Empty(t, env.dr.CopyInputs)
}

func TestReplicate_WaitTimeoutFailsStage(t *testing.T) {
	env := newTestEnv()
	env.primary.NewSnapshotState = cloud.SnapshotPending
	id := captureOne(t, env)

	_, err := env.orch.Replicate(context.Background(), []domain.SnapshotID{id})
	require.Error(t, err)
	require.True(t, domain.IsTimeout(err))
	require.Empty(t, env.dr.CopyInputs)
}

func TestReplicate_CopiesWithProvenance(t *testing.T) {
	env := newTestEnv()
	id := captureOne(t, env)

	replicas, err := env.orch.Replicate(context.Background(), []domain.SnapshotID{id})
	require.NoError(t, err)
	require.Len(t, replicas, 1)

	require.Len(t, env.dr.CopyInputs, 1)
	in := env.dr.CopyInputs[0]
	require.Equal(t, id, in.SourceSnapshotID)
	require.Equal(t, "us-east-1", in.SourceRegion)
	require.Equal(t, testKeyARN, in.KMSKeyARN)
	require.Contains(t, in.Description, string(id))
	require.Contains(t, in.Description, "i-1")
	require.Equal(t, string(id), in.Tags[domain.TagSourceSnapshot])
	require.Equal(t, "us-east-1", in.Tags[domain.TagSourceRegion])
	require.Equal(t, "SmartVault-DR-i-1", in.Tags[domain.TagName])
}

func TestReplicate_PerItemFailureIsolated(t *testing.T) {
	env := newTestEnv()
	env.primary.AddInstance("i-1", "running", backupTags(), "vol-a", "vol-b")
	created := env.orch.Capture(context.Background(), []domain.BackupTarget{{InstanceID: "i-1"}})
	require.Len(t, created, 2)

	env.dr.CopySnapshotErr[created[0]] = domain.Ef(domain.KindAccess, "ec2.CopySnapshot", "denied")

	replicas, err := env.orch.Replicate(context.Background(), created)
	require.NoError(t, err)
	require.Len(t, replicas, 1)
}

func TestReplicate_AllItemsFailingFailsStage(t *testing.T) {
	env := newTestEnv()
	id := captureOne(t, env)
	env.dr.CopySnapshotErr[id] = domain.Ef(domain.KindProvider, "ec2.CopySnapshot", "invalid parameter")

	_, err := env.orch.Replicate(context.Background(), []domain.SnapshotID{id})
	require.Error(t, err)
	require.False(t, domain.IsConfig(err))
}

func TestReplicate_EmptyInputIsNoop(t *testing.T) {
	env := newTestEnv()

	replicas, err := env.orch.Replicate(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, replicas)
	require.Zero(t, env.keys.Calls)
}

package backup

import (
	"context"
	"fmt"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/domain"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

// Replicate copies completed snapshots into the DR region, encrypted with
// the DR key. The key check runs before any wait or copy: a bad key
// invalidates every copy, so it is a stage-level configuration failure, not
// a per-item one. Individual copy failures are logged with their provider
// classification and skipped; only an empty aggregate fails the stage.
func (o *Orchestrator) Replicate(ctx context.Context, sourceIDs []domain.SnapshotID) ([]domain.SnapshotID, error) {
	if len(sourceIDs) == 0 {
		return nil, nil
	}

	if err := o.DRKeys.DescribeKey(ctx, o.DRKMSKeyARN); err != nil {
		return nil, domain.E(domain.KindConfig, "backup.Replicate",
			fmt.Errorf("cannot access KMS key %s in region %s: %w", o.DRKMSKeyARN, o.DR.Region(), err))
	}
	o.Logger.Info(ctx, "validated DR KMS key", map[string]any{"key": o.DRKMSKeyARN})

	o.Logger.Info(ctx, "waiting for snapshots to complete before copying", map[string]any{
		"count": len(sourceIDs),
	})
	if err := cloud.WaitForSnapshots(ctx, o.Primary, sourceIDs, o.Wait); err != nil {
		return nil, err
	}

	date := o.now().Format(domain.BackupDateLayout)

	var replicas []domain.SnapshotID
	for _, id := range sourceIDs {
		source, err := o.Primary.DescribeSnapshot(ctx, id)
		if err != nil {
			o.logCopyFailure(ctx, id, err)
			continue
		}

		sourceInstance := source.Tags[domain.TagSourceInstance]
		if sourceInstance == "" {
			sourceInstance = "UnknownInstance"
		}

		replicaID, err := o.DR.CopySnapshot(ctx, cloud.CopySnapshotInput{
			SourceSnapshotID: id,
			SourceRegion:     o.Primary.Region(),
			Description:      fmt.Sprintf("DR copy of %s from %s", id, sourceInstance),
			KMSKeyARN:        o.DRKMSKeyARN,
			Tags: map[string]string{
				domain.TagName:           "SmartVault-DR-" + sourceInstance,
				domain.TagCreatedBy:      domain.CreatedByBackup,
				domain.TagSourceSnapshot: string(id),
				domain.TagSourceRegion:   o.Primary.Region(),
				domain.TagBackupDate:     date,
			},
		})
		if err != nil {
			o.logCopyFailure(ctx, id, err)
			continue
		}

		replicas = append(replicas, replicaID)
		o.Metrics.IncCounter("smartvault_replicas_created_total", 1,
			telemetry.Label{Key: "region", Value: o.DR.Region()})
		o.Logger.Info(ctx, "initiated snapshot copy", map[string]any{
			"source_snapshot_id":  id,
			"replica_snapshot_id": replicaID,
			"region":              o.DR.Region(),
		})
	}

	if len(replicas) == 0 {
		return nil, domain.Ef(domain.KindProvider, "backup.Replicate",
			"failed to copy any snapshots to %s", o.DR.Region())
	}
	return replicas, nil
}

// logCopyFailure records the failure with enough classification to tell a
// permission problem from a transient one before the loop moves on.
func (o *Orchestrator) logCopyFailure(ctx context.Context, id domain.SnapshotID, err error) {
	fields := map[string]any{
		"snapshot_id": id,
		"region":      o.DR.Region(),
		"kind":        string(domain.KindOf(err)),
		"error":       err.Error(),
	}
	if code := cloud.ErrorCode(err); code != "" {
		fields["code"] = code
	}
	if domain.IsAccess(err) {
		fields["hint"] = "check IAM permissions and the DR KMS key policy"
	}
	o.Logger.Error(ctx, "failed to copy snapshot", fields)
}

package backup

import (
	"context"
	"fmt"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/domain"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

// Capture requests a snapshot of every volume attached to every target.
// Failures are per-volume: logged, counted, skipped. The returned IDs are
// snapshots that were requested, not necessarily completed; replication
// waits for completion.
func (o *Orchestrator) Capture(ctx context.Context, targets []domain.BackupTarget) []domain.SnapshotID {
	date := o.now().Format(domain.BackupDateLayout)

	var created []domain.SnapshotID
	for _, target := range targets {
		volumes, err := o.Primary.ListAttachedVolumes(ctx, target.InstanceID)
		if err != nil {
			o.Logger.Error(ctx, "failed to list volumes for instance", map[string]any{
				"instance_id": target.InstanceID,
				"error":       err.Error(),
			})
			continue
		}
		if len(volumes) == 0 {
			o.Logger.Warn(ctx, "no volumes attached to instance", map[string]any{
				"instance_id": target.InstanceID,
			})
			continue
		}

		for _, volume := range volumes {
			id, err := o.Primary.CreateSnapshot(ctx, cloud.CreateSnapshotInput{
				VolumeID:    volume,
				Description: fmt.Sprintf("SmartVault backup for %s from %s", volume, target.InstanceID),
				Tags: map[string]string{
					domain.TagCreatedBy:      domain.CreatedByBackup,
					domain.TagSourceInstance: string(target.InstanceID),
					domain.TagBackupDate:     date,
				},
			})
			if err != nil {
				o.Logger.Error(ctx, "failed to create snapshot", map[string]any{
					"instance_id": target.InstanceID,
					"volume_id":   volume,
					"error":       err.Error(),
				})
				continue
			}

			created = append(created, id)
			o.Metrics.IncCounter("smartvault_snapshots_created_total", 1,
				telemetry.Label{Key: "region", Value: o.Primary.Region()})
			o.Logger.Info(ctx, "created snapshot", map[string]any{
				"snapshot_id": id,
				"volume_id":   volume,
				"instance_id": target.InstanceID,
			})
		}
	}
	return created
}

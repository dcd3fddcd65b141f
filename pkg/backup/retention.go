package backup

import (
	"context"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/domain"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

// Retire deletes snapshots owned by this system whose creation time is
// strictly before now minus the retention window. A snapshot created exactly
// at the cutoff is retained. Delete failures are logged and skipped; the
// scan always completes and reports how many deletions succeeded.
func (o *Orchestrator) Retire(ctx context.Context, c cloud.Compute) (int, error) {
	cutoff := o.now().AddDate(0, 0, -o.RetentionDays)
	o.Logger.Info(ctx, "starting retention scan", map[string]any{
		"region": c.Region(),
		"cutoff": cutoff,
	})

	snapshots, err := c.ListSnapshotsByTag(ctx, domain.TagCreatedBy, domain.CreatedByBackup)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, snap := range snapshots {
		if !snap.StartTime.Before(cutoff) {
			continue
		}
		if err := c.DeleteSnapshot(ctx, snap.ID); err != nil {
			o.Logger.Error(ctx, "could not delete snapshot", map[string]any{
				"snapshot_id": snap.ID,
				"region":      c.Region(),
				"error":       err.Error(),
			})
			continue
		}
		deleted++
		o.Logger.Info(ctx, "deleted expired snapshot", map[string]any{
			"snapshot_id": snap.ID,
			"region":      c.Region(),
			"created_at":  snap.StartTime,
		})
	}

	o.Metrics.IncCounter("smartvault_snapshots_retired_total", float64(deleted),
		telemetry.Label{Key: "region", Value: c.Region()})
	o.Logger.Info(ctx, "retention scan finished", map[string]any{
		"region":  c.Region(),
		"deleted": deleted,
	})
	return deleted, nil
}

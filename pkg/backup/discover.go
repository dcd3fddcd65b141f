package backup

import (
	"context"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/domain"
)

// Discover finds the instances matching the backup tag that are in a live
// state. An empty result is normal and short-circuits the cycle. Volume
// enumeration happens later, in Capture, so discovery stays read-cheap.
func (o *Orchestrator) Discover(ctx context.Context) ([]domain.BackupTarget, error) {
	instances, err := o.Primary.FindInstancesByTag(ctx, o.TagKey, o.TagValue, cloud.LiveInstanceStates)
	if err != nil {
		return nil, err
	}

	targets := make([]domain.BackupTarget, 0, len(instances))
	for _, inst := range instances {
		targets = append(targets, domain.BackupTarget{InstanceID: inst.ID})
	}

	o.Logger.Info(ctx, "discovered backup targets", map[string]any{
		"count":     len(targets),
		"tag_key":   o.TagKey,
		"tag_value": o.TagValue,
	})
	return targets, nil
}

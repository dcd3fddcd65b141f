package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/domain"
	"github.com/smartvault/smartvault/pkg/notify"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

// Orchestrator runs one backup cycle: discover tagged instances, snapshot
// their volumes, replicate the snapshots encrypted into the DR region, then
// retire aged snapshots in both regions. Stages run sequentially; per-item
// failures inside a stage are isolated so one bad resource cannot sink the
// batch.
type Orchestrator struct {
	Primary  cloud.Compute
	DR       cloud.Compute
	DRKeys   cloud.KeyService
	Notifier notify.Notifier
	Logger   telemetry.Logger
	Metrics  telemetry.Metrics

	TagKey        string
	TagValue      string
	RetentionDays int
	DRKMSKeyARN   string
	Wait          cloud.WaitConfig

	// Now is injectable for retention-boundary tests. Nil means time.Now.
	Now func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Run executes the full cycle. Every path out of Run resolves the cycle to
// at most one notification; errors are returned for the caller's exit code
// but are already reported by the time Run returns.
func (o *Orchestrator) Run(ctx context.Context) (report *domain.CycleReport, err error) {
	report = &domain.CycleReport{StartedAt: o.now()}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backup cycle panicked: %v", r)
		}
		if err != nil {
			o.Metrics.IncCounter("smartvault_backup_cycles_total", 1, telemetry.Label{Key: "result", Value: "failed"})
			o.Notifier.Notify(ctx, "SmartVault Backup FAILED",
				fmt.Sprintf("SmartVault backup FAILED at %s.\n\nError: %v", o.now().Format(time.RFC3339), err))
			return
		}
		o.Metrics.IncCounter("smartvault_backup_cycles_total", 1, telemetry.Label{Key: "result", Value: "succeeded"})
	}()

	targets, err := o.Discover(ctx)
	if err != nil {
		return report, err
	}
	if len(targets) == 0 {
		o.Logger.Info(ctx, "no instances to back up", map[string]any{
			"tag_key":   o.TagKey,
			"tag_value": o.TagValue,
		})
		return report, nil
	}
	report.Targets = len(targets)

	created := o.Capture(ctx, targets)
	if len(created) == 0 {
		return report, domain.Ef(domain.KindProvider, "backup.Capture",
			"snapshot creation failed for all %d targets", len(targets))
	}
	report.Created = created

	replicas, err := o.Replicate(ctx, created)
	if err != nil {
		return report, err
	}
	report.Replicated = replicas

	if report.RetiredPrimary, err = o.Retire(ctx, o.Primary); err != nil {
		return report, err
	}
	if report.RetiredDR, err = o.Retire(ctx, o.DR); err != nil {
		return report, err
	}

	o.Notifier.Notify(ctx, "SmartVault Backup SUCCEEDED", o.successBody(report))
	return report, nil
}

func (o *Orchestrator) successBody(report *domain.CycleReport) string {
	return fmt.Sprintf(
		"SmartVault backup SUCCEEDED at %s.\n\n"+
			"Created %d snapshots in %s.\n"+
			"Initiated copy for %d snapshots to %s.\n"+
			"Retired %d snapshots in %s and %d in %s.\n",
		o.now().Format(time.RFC3339),
		len(report.Created), o.Primary.Region(),
		len(report.Replicated), o.DR.Region(),
		report.RetiredPrimary, o.Primary.Region(),
		report.RetiredDR, o.DR.Region(),
	)
}

package restore

import (
	"context"
	"fmt"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/domain"
	"github.com/smartvault/smartvault/pkg/notify"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

// DefaultDeviceName is used when the request does not name an attach device.
const DefaultDeviceName = "/dev/sdf"

// Worker executes restore requests handed over by the front door. Restore
// never returns an error: every path, including panics, resolves to a
// structured outcome and exactly one notification.
type Worker struct {
	Compute  cloud.Compute
	Notifier notify.Notifier
	Logger   telemetry.Logger
	Metrics  telemetry.Metrics
	Wait     cloud.WaitConfig
}

func (w *Worker) Restore(ctx context.Context, req *domain.RestoreRequest) (outcome *domain.RestoreOutcome) {
	outcome = &domain.RestoreOutcome{Status: domain.RestoreFailed}
	if req != nil {
		outcome.RequestID = req.RequestID
		outcome.SnapshotID = req.SnapshotID
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Status = domain.RestoreFailed
			outcome.Reason = fmt.Sprintf("restore panicked: %v", r)
		}
		w.report(ctx, outcome)
	}()

	if err := Validate(req); err != nil {
		outcome.Reason = err.Error()
		return outcome
	}

	w.Logger.Info(ctx, "starting restore", map[string]any{
		"request_id":  req.RequestID,
		"snapshot_id": req.SnapshotID,
		"launch":      req.LaunchInstance,
	})

	if _, err := w.Compute.DescribeSnapshot(ctx, req.SnapshotID); err != nil {
		if domain.IsNotFound(err) {
			outcome.Reason = fmt.Sprintf("snapshot %s not found", req.SnapshotID)
		} else {
			outcome.Reason = err.Error()
		}
		return outcome
	}

	zone := req.AvailabilityZone
	if req.LaunchInstance {
		subnet, err := w.Compute.DescribeSubnet(ctx, req.SubnetID)
		if err != nil {
			if domain.IsNotFound(err) {
				outcome.Reason = fmt.Sprintf("subnet %s not found", req.SubnetID)
			} else {
				outcome.Reason = err.Error()
			}
			return outcome
		}
		zone = subnet.AvailabilityZone
	} else if zone == "" {
		outcome.Reason = "availability_zone is required when launch_instance is not set"
		return outcome
	}
	outcome.AvailabilityZone = zone

	volumeID, err := w.Compute.CreateVolume(ctx, cloud.CreateVolumeInput{
		SnapshotID:       req.SnapshotID,
		AvailabilityZone: zone,
		Tags: map[string]string{
			domain.TagName:      fmt.Sprintf("Restored from %s", req.SnapshotID),
			domain.TagCreatedBy: domain.CreatedByRestore,
		},
	})
	if err != nil {
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.VolumeID = volumeID
	w.Logger.Info(ctx, "initiated volume creation", map[string]any{
		"volume_id":         volumeID,
		"availability_zone": zone,
	})

	if !req.LaunchInstance {
		outcome.Status = domain.RestoreSucceeded
		return outcome
	}

	if err := cloud.WaitForVolumeAvailable(ctx, w.Compute, volumeID, w.Wait); err != nil {
		outcome.Reason = err.Error()
		return outcome
	}

	instanceID, err := w.Compute.RunInstance(ctx, cloud.RunInstanceInput{
		AMIID:            req.AMIID,
		InstanceType:     req.InstanceType,
		SubnetID:         req.SubnetID,
		AvailabilityZone: zone,
		Tags: map[string]string{
			domain.TagName:      "Restored by SmartVault",
			domain.TagCreatedBy: domain.CreatedByRestore,
		},
	})
	if err != nil {
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.InstanceID = instanceID
	w.Logger.Info(ctx, "initiated instance launch", map[string]any{"instance_id": instanceID})

	if err := cloud.WaitForInstanceRunning(ctx, w.Compute, instanceID, w.Wait); err != nil {
		outcome.Reason = err.Error()
		return outcome
	}

	device := req.DeviceName
	if device == "" {
		device = DefaultDeviceName
	}
	if err := w.Compute.AttachVolume(ctx, instanceID, volumeID, device); err != nil {
		outcome.Reason = err.Error()
		return outcome
	}
	w.Logger.Info(ctx, "attached restored volume", map[string]any{
		"instance_id": instanceID,
		"volume_id":   volumeID,
		"device":      device,
	})

	outcome.Status = domain.RestoreSucceeded
	return outcome
}

// report sends the single notification for this attempt and records the
// outcome metric.
func (w *Worker) report(ctx context.Context, outcome *domain.RestoreOutcome) {
	w.Metrics.IncCounter("smartvault_restores_total", 1,
		telemetry.Label{Key: "status", Value: string(outcome.Status)})

	if outcome.Status == domain.RestoreSucceeded {
		body := fmt.Sprintf("SmartVault restore SUCCEEDED.\n\nSnapshot: %s\nVolume: %s\nAvailability zone: %s\n",
			outcome.SnapshotID, outcome.VolumeID, outcome.AvailabilityZone)
		if outcome.InstanceID != "" {
			body += fmt.Sprintf("Instance: %s\n", outcome.InstanceID)
		}
		w.Notifier.Notify(ctx, "SmartVault Restore SUCCEEDED", body)
		return
	}

	w.Logger.Error(ctx, "restore failed", map[string]any{
		"request_id":  outcome.RequestID,
		"snapshot_id": outcome.SnapshotID,
		"reason":      outcome.Reason,
	})
	w.Notifier.Notify(ctx, "SmartVault Restore FAILED",
		fmt.Sprintf("SmartVault restore FAILED.\n\nSnapshot: %s\nReason: %s\n", outcome.SnapshotID, outcome.Reason))
}

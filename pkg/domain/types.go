package domain

import (
	"time"
)

// IDs

type InstanceID string
type VolumeID string
type SnapshotID string

// BackupTarget is one discovered instance together with the volumes that
// will be snapshotted this cycle. Produced fresh by discovery, never persisted.
type BackupTarget struct {
	InstanceID InstanceID `json:"instance_id"`
	VolumeIDs  []VolumeID `json:"volume_ids"`
}

// RestoreRequest is the payload accepted by the front door and executed by
// the restore worker. SnapshotID is always required. When LaunchInstance is
// set, SubnetID, AMIID and InstanceType are required and the availability
// zone is derived from the subnet; otherwise AvailabilityZone is required.
type RestoreRequest struct {
	RequestID        string     `json:"request_id,omitempty"`
	SnapshotID       SnapshotID `json:"snapshot_id"`
	AvailabilityZone string     `json:"availability_zone,omitempty"`
	LaunchInstance   bool       `json:"launch_instance,omitempty"`
	InstanceType     string     `json:"instance_type,omitempty"`
	AMIID            string     `json:"ami_id,omitempty"`
	SubnetID         string     `json:"subnet_id,omitempty"`
	DeviceName       string     `json:"device_name,omitempty"`
}

// Restore outcomes

type RestoreStatus string

const (
	RestoreSucceeded RestoreStatus = "SUCCEEDED"
	RestoreFailed    RestoreStatus = "FAILED"
)

// RestoreOutcome is the structured result of a restore attempt. The worker
// always produces one, success or failure; it never raises past its boundary.
type RestoreOutcome struct {
	RequestID        string        `json:"request_id,omitempty"`
	Status           RestoreStatus `json:"status"`
	SnapshotID       SnapshotID    `json:"snapshot_id"`
	VolumeID         VolumeID      `json:"volume_id,omitempty"`
	InstanceID       InstanceID    `json:"instance_id,omitempty"`
	AvailabilityZone string        `json:"availability_zone,omitempty"`
	Reason           string        `json:"reason,omitempty"`
}

// CycleReport summarizes one backup cycle for notification and metrics.
type CycleReport struct {
	StartedAt      time.Time    `json:"started_at"`
	Targets        int          `json:"targets"`
	Created        []SnapshotID `json:"created,omitempty"`
	Replicated     []SnapshotID `json:"replicated,omitempty"`
	RetiredPrimary int          `json:"retired_primary"`
	RetiredDR      int          `json:"retired_dr"`
}

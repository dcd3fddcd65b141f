package cloud

import (
	"context"
	"time"

	"github.com/smartvault/smartvault/pkg/domain"
)

// Snapshot states as the provider reports them.

type SnapshotState string

const (
	SnapshotPending   SnapshotState = "pending"
	SnapshotCompleted SnapshotState = "completed"
	SnapshotError     SnapshotState = "error"
)

// Volume and instance states the waiters look for.
const (
	VolumeAvailable = "available"
	InstanceRunning = "running"
)

// Instance liveness allow-list for discovery. Terminated and shutting-down
// instances are excluded on purpose.
var LiveInstanceStates = []string{"running", "stopped"}

type Instance struct {
	ID    domain.InstanceID
	State string
	Tags  map[string]string
}

type Snapshot struct {
	ID          domain.SnapshotID
	VolumeID    domain.VolumeID
	State       SnapshotState
	StartTime   time.Time
	Description string
	Tags        map[string]string
}

type Subnet struct {
	ID               string
	AvailabilityZone string
}

type CreateSnapshotInput struct {
	VolumeID    domain.VolumeID
	Description string
	Tags        map[string]string
}

// CopySnapshotInput requests an encrypted cross-region copy. The copy is
// always encrypted with KMSKeyARN; there is no unencrypted replica path.
type CopySnapshotInput struct {
	SourceSnapshotID domain.SnapshotID
	SourceRegion     string
	Description      string
	KMSKeyARN        string
	Tags             map[string]string
}

type CreateVolumeInput struct {
	SnapshotID       domain.SnapshotID
	AvailabilityZone string
	Tags             map[string]string
}

type RunInstanceInput struct {
	AMIID            string
	InstanceType     string
	SubnetID         string
	AvailabilityZone string
	Tags             map[string]string
}

// Compute is the narrow surface of the provider the orchestration engine
// depends on. One implementation exists per region; cross-region work uses
// two instances. Errors carry a domain kind where the provider response
// allows classification.
type Compute interface {
	Region() string

	FindInstancesByTag(ctx context.Context, tagKey, tagValue string, states []string) ([]Instance, error)
	ListAttachedVolumes(ctx context.Context, id domain.InstanceID) ([]domain.VolumeID, error)

	CreateSnapshot(ctx context.Context, in CreateSnapshotInput) (domain.SnapshotID, error)
	DescribeSnapshot(ctx context.Context, id domain.SnapshotID) (*Snapshot, error)
	ListSnapshotsByTag(ctx context.Context, tagKey, tagValue string) ([]Snapshot, error)
	CopySnapshot(ctx context.Context, in CopySnapshotInput) (domain.SnapshotID, error)
	DeleteSnapshot(ctx context.Context, id domain.SnapshotID) error

	CreateVolume(ctx context.Context, in CreateVolumeInput) (domain.VolumeID, error)
	DescribeVolumeState(ctx context.Context, id domain.VolumeID) (string, error)
	AttachVolume(ctx context.Context, instance domain.InstanceID, volume domain.VolumeID, device string) error

	RunInstance(ctx context.Context, in RunInstanceInput) (domain.InstanceID, error)
	DescribeInstanceState(ctx context.Context, id domain.InstanceID) (string, error)

	DescribeSubnet(ctx context.Context, subnetID string) (*Subnet, error)
}

// KeyService validates that an encryption key is reachable and usable.
type KeyService interface {
	DescribeKey(ctx context.Context, keyID string) error
}

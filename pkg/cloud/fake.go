package cloud

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/smartvault/smartvault/pkg/domain"
)

// Fake is an in-memory Compute for tests. Newly created resources land in
// their terminal state by default so straight-line flows need no state
// nudging; tests exercising the waiters override the initial states.
type Fake struct {
	mu         sync.Mutex
	RegionName string

	Instances      map[domain.InstanceID]*Instance
	AttachedVols   map[domain.InstanceID][]domain.VolumeID
	Snapshots      map[domain.SnapshotID]*Snapshot
	VolumeStates   map[domain.VolumeID]string
	InstanceStates map[domain.InstanceID]string
	Subnets        map[string]*Subnet

	// Initial states for created resources.
	NewSnapshotState SnapshotState
	NewVolumeState   string
	NewInstanceState string

	Now func() time.Time

	// Error injection, keyed by the resource the operation touches.
	FindInstancesErr  error
	ListVolumesErr    map[domain.InstanceID]error
	CreateSnapshotErr map[domain.VolumeID]error
	CopySnapshotErr   map[domain.SnapshotID]error
	DeleteSnapshotErr map[domain.SnapshotID]error
	ListSnapshotsErr  error
	CreateVolumeErr   error
	RunInstanceErr    error
	AttachVolumeErr   error

	// Call recording.
	CopyInputs            []CopySnapshotInput
	CreateVolumeInputs    []CreateVolumeInput
	RunInstanceInputs     []RunInstanceInput
	Attachments           []FakeAttachment
	Deleted               []domain.SnapshotID
	DescribeSnapshotCalls int

	seq int
}

type FakeAttachment struct {
	InstanceID domain.InstanceID
	VolumeID   domain.VolumeID
	Device     string
}

func NewFake(region string) *Fake {
	return &Fake{
		RegionName:        region,
		Instances:         make(map[domain.InstanceID]*Instance),
		AttachedVols:      make(map[domain.InstanceID][]domain.VolumeID),
		Snapshots:         make(map[domain.SnapshotID]*Snapshot),
		VolumeStates:      make(map[domain.VolumeID]string),
		InstanceStates:    make(map[domain.InstanceID]string),
		Subnets:           make(map[string]*Subnet),
		NewSnapshotState:  SnapshotCompleted,
		NewVolumeState:    VolumeAvailable,
		NewInstanceState:  InstanceRunning,
		ListVolumesErr:    make(map[domain.InstanceID]error),
		CreateSnapshotErr: make(map[domain.VolumeID]error),
		CopySnapshotErr:   make(map[domain.SnapshotID]error),
		DeleteSnapshotErr: make(map[domain.SnapshotID]error),
		Now:               time.Now,
	}
}

func (f *Fake) AddInstance(id domain.InstanceID, state string, tags map[string]string, volumes ...domain.VolumeID) {
	f.Instances[id] = &Instance{ID: id, State: state, Tags: tags}
	f.AttachedVols[id] = volumes
}

func (f *Fake) AddSnapshot(snap Snapshot) {
	copied := snap
	f.Snapshots[snap.ID] = &copied
}

func (f *Fake) AddSubnet(id, az string) {
	f.Subnets[id] = &Subnet{ID: id, AvailabilityZone: az}
}

func (f *Fake) Region() string { return f.RegionName }

func (f *Fake) FindInstancesByTag(ctx context.Context, tagKey, tagValue string, states []string) ([]Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FindInstancesErr != nil {
		return nil, f.FindInstancesErr
	}
	allowed := make(map[string]struct{}, len(states))
	for _, s := range states {
		allowed[s] = struct{}{}
	}
	var out []Instance
	for _, inst := range f.Instances {
		if _, ok := allowed[inst.State]; !ok {
			continue
		}
		if inst.Tags[tagKey] != tagValue {
			continue
		}
		out = append(out, *inst)
	}
	return out, nil
}

func (f *Fake) ListAttachedVolumes(ctx context.Context, id domain.InstanceID) ([]domain.VolumeID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ListVolumesErr[id]; err != nil {
		return nil, err
	}
	return f.AttachedVols[id], nil
}

func (f *Fake) CreateSnapshot(ctx context.Context, in CreateSnapshotInput) (domain.SnapshotID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.CreateSnapshotErr[in.VolumeID]; err != nil {
		return "", err
	}
	f.seq++
	id := domain.SnapshotID(fmt.Sprintf("snap-%04d", f.seq))
	f.Snapshots[id] = &Snapshot{
		ID:          id,
		VolumeID:    in.VolumeID,
		State:       f.NewSnapshotState,
		StartTime:   f.Now(),
		Description: in.Description,
		Tags:        in.Tags,
	}
	return id, nil
}

func (f *Fake) DescribeSnapshot(ctx context.Context, id domain.SnapshotID) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DescribeSnapshotCalls++
	snap, ok := f.Snapshots[id]
	if !ok {
		return nil, domain.Ef(domain.KindNotFound, "fake.DescribeSnapshot", "snapshot %s not found", id)
	}
	copied := *snap
	return &copied, nil
}

func (f *Fake) ListSnapshotsByTag(ctx context.Context, tagKey, tagValue string) ([]Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListSnapshotsErr != nil {
		return nil, f.ListSnapshotsErr
	}
	var out []Snapshot
	for _, snap := range f.Snapshots {
		if snap.Tags[tagKey] == tagValue {
			out = append(out, *snap)
		}
	}
	return out, nil
}

func (f *Fake) CopySnapshot(ctx context.Context, in CopySnapshotInput) (domain.SnapshotID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.CopySnapshotErr[in.SourceSnapshotID]; err != nil {
		return "", err
	}
	f.CopyInputs = append(f.CopyInputs, in)
	f.seq++
	id := domain.SnapshotID(fmt.Sprintf("snap-copy-%04d", f.seq))
	f.Snapshots[id] = &Snapshot{
		ID:          id,
		State:       f.NewSnapshotState,
		StartTime:   f.Now(),
		Description: in.Description,
		Tags:        in.Tags,
	}
	return id, nil
}

func (f *Fake) DeleteSnapshot(ctx context.Context, id domain.SnapshotID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.DeleteSnapshotErr[id]; err != nil {
		return err
	}
	if _, ok := f.Snapshots[id]; !ok {
		return domain.Ef(domain.KindNotFound, "fake.DeleteSnapshot", "snapshot %s not found", id)
	}
	delete(f.Snapshots, id)
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *Fake) CreateVolume(ctx context.Context, in CreateVolumeInput) (domain.VolumeID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateVolumeErr != nil {
		return "", f.CreateVolumeErr
	}
	f.CreateVolumeInputs = append(f.CreateVolumeInputs, in)
	f.seq++
	id := domain.VolumeID(fmt.Sprintf("vol-%04d", f.seq))
	f.VolumeStates[id] = f.NewVolumeState
	return id, nil
}

func (f *Fake) DescribeVolumeState(ctx context.Context, id domain.VolumeID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.VolumeStates[id]
	if !ok {
		return "", domain.Ef(domain.KindNotFound, "fake.DescribeVolumeState", "volume %s not found", id)
	}
	return state, nil
}

func (f *Fake) AttachVolume(ctx context.Context, instance domain.InstanceID, volume domain.VolumeID, device string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AttachVolumeErr != nil {
		return f.AttachVolumeErr
	}
	f.Attachments = append(f.Attachments, FakeAttachment{InstanceID: instance, VolumeID: volume, Device: device})
	return nil
}

func (f *Fake) RunInstance(ctx context.Context, in RunInstanceInput) (domain.InstanceID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RunInstanceErr != nil {
		return "", f.RunInstanceErr
	}
	f.RunInstanceInputs = append(f.RunInstanceInputs, in)
	f.seq++
	id := domain.InstanceID(fmt.Sprintf("i-new-%04d", f.seq))
	f.InstanceStates[id] = f.NewInstanceState
	return id, nil
}

func (f *Fake) DescribeInstanceState(ctx context.Context, id domain.InstanceID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if state, ok := f.InstanceStates[id]; ok {
		return state, nil
	}
	if inst, ok := f.Instances[id]; ok {
		return inst.State, nil
	}
	return "", domain.Ef(domain.KindNotFound, "fake.DescribeInstanceState", "instance %s not found", id)
}

func (f *Fake) DescribeSubnet(ctx context.Context, subnetID string) (*Subnet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subnet, ok := f.Subnets[subnetID]
	if !ok {
		return nil, domain.Ef(domain.KindNotFound, "fake.DescribeSubnet", "subnet %s not found", subnetID)
	}
	copied := *subnet
	return &copied, nil
}

var _ Compute = (*Fake)(nil)

// FakeKeys is an in-memory KeyService.
type FakeKeys struct {
	Err   error
	Calls int
}

func (k *FakeKeys) DescribeKey(ctx context.Context, keyID string) error {
	k.Calls++
	return k.Err
}

var _ KeyService = (*FakeKeys)(nil)

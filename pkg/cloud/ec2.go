package cloud

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/smartvault/smartvault/pkg/domain"
)

// EC2Compute implements Compute against one AWS region.
type EC2Compute struct {
	client *ec2.Client
	region string
}

func NewEC2Compute(ctx context.Context, region string) (*EC2Compute, error) {
	cfg, err := LoadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return &EC2Compute{client: ec2.NewFromConfig(cfg), region: region}, nil
}

// NewEC2ComputeWithClient wires a preconfigured client, for endpoint
// overrides and stubbed transports.
func NewEC2ComputeWithClient(client *ec2.Client, region string) *EC2Compute {
	return &EC2Compute{client: client, region: region}
}

func (c *EC2Compute) Region() string { return c.region }

func (c *EC2Compute) FindInstancesByTag(ctx context.Context, tagKey, tagValue string, states []string) ([]Instance, error) {
	paginator := ec2.NewDescribeInstancesPaginator(c.client, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("tag:" + tagKey), Values: []string{tagValue}},
			{Name: aws.String("instance-state-name"), Values: states},
		},
	})

	var instances []Instance
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify("ec2.DescribeInstances", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, Instance{
					ID:    domain.InstanceID(aws.ToString(inst.InstanceId)),
					State: string(inst.State.Name),
					Tags:  fromEC2Tags(inst.Tags),
				})
			}
		}
	}
	return instances, nil
}

func (c *EC2Compute) ListAttachedVolumes(ctx context.Context, id domain.InstanceID) ([]domain.VolumeID, error) {
	paginator := ec2.NewDescribeVolumesPaginator(c.client, &ec2.DescribeVolumesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("attachment.instance-id"), Values: []string{string(id)}},
		},
	})

	var volumes []domain.VolumeID
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify("ec2.DescribeVolumes", err)
		}
		for _, vol := range page.Volumes {
			volumes = append(volumes, domain.VolumeID(aws.ToString(vol.VolumeId)))
		}
	}
	return volumes, nil
}

func (c *EC2Compute) CreateSnapshot(ctx context.Context, in CreateSnapshotInput) (domain.SnapshotID, error) {
	out, err := c.client.CreateSnapshot(ctx, &ec2.CreateSnapshotInput{
		VolumeId:    aws.String(string(in.VolumeID)),
		Description: aws.String(in.Description),
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeSnapshot,
				Tags:         toEC2Tags(in.Tags),
			},
		},
	})
	if err != nil {
		return "", classify("ec2.CreateSnapshot", err)
	}
	return domain.SnapshotID(aws.ToString(out.SnapshotId)), nil
}

func (c *EC2Compute) DescribeSnapshot(ctx context.Context, id domain.SnapshotID) (*Snapshot, error) {
	out, err := c.client.DescribeSnapshots(ctx, &ec2.DescribeSnapshotsInput{
		SnapshotIds: []string{string(id)},
	})
	if err != nil {
		return nil, classify("ec2.DescribeSnapshots", err)
	}
	if len(out.Snapshots) == 0 {
		return nil, domain.Ef(domain.KindNotFound, "ec2.DescribeSnapshots", "snapshot %s not found", id)
	}
	return fromEC2Snapshot(out.Snapshots[0]), nil
}

func (c *EC2Compute) ListSnapshotsByTag(ctx context.Context, tagKey, tagValue string) ([]Snapshot, error) {
	paginator := ec2.NewDescribeSnapshotsPaginator(c.client, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
		Filters: []ec2types.Filter{
			{Name: aws.String("tag:" + tagKey), Values: []string{tagValue}},
		},
	})

	var snapshots []Snapshot
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify("ec2.DescribeSnapshots", err)
		}
		for _, snap := range page.Snapshots {
			snapshots = append(snapshots, *fromEC2Snapshot(snap))
		}
	}
	return snapshots, nil
}

func (c *EC2Compute) CopySnapshot(ctx context.Context, in CopySnapshotInput) (domain.SnapshotID, error) {
	out, err := c.client.CopySnapshot(ctx, &ec2.CopySnapshotInput{
		SourceRegion:     aws.String(in.SourceRegion),
		SourceSnapshotId: aws.String(string(in.SourceSnapshotID)),
		Description:      aws.String(in.Description),
		Encrypted:        aws.Bool(true),
		KmsKeyId:         aws.String(in.KMSKeyARN),
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeSnapshot,
				Tags:         toEC2Tags(in.Tags),
			},
		},
	})
	if err != nil {
		return "", classify("ec2.CopySnapshot", err)
	}
	return domain.SnapshotID(aws.ToString(out.SnapshotId)), nil
}

func (c *EC2Compute) DeleteSnapshot(ctx context.Context, id domain.SnapshotID) error {
	_, err := c.client.DeleteSnapshot(ctx, &ec2.DeleteSnapshotInput{
		SnapshotId: aws.String(string(id)),
	})
	if err != nil {
		return classify("ec2.DeleteSnapshot", err)
	}
	return nil
}

func (c *EC2Compute) CreateVolume(ctx context.Context, in CreateVolumeInput) (domain.VolumeID, error) {
	out, err := c.client.CreateVolume(ctx, &ec2.CreateVolumeInput{
		SnapshotId:       aws.String(string(in.SnapshotID)),
		AvailabilityZone: aws.String(in.AvailabilityZone),
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeVolume,
				Tags:         toEC2Tags(in.Tags),
			},
		},
	})
	if err != nil {
		return "", classify("ec2.CreateVolume", err)
	}
	return domain.VolumeID(aws.ToString(out.VolumeId)), nil
}

func (c *EC2Compute) DescribeVolumeState(ctx context.Context, id domain.VolumeID) (string, error) {
	out, err := c.client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{
		VolumeIds: []string{string(id)},
	})
	if err != nil {
		return "", classify("ec2.DescribeVolumes", err)
	}
	if len(out.Volumes) == 0 {
		return "", domain.Ef(domain.KindNotFound, "ec2.DescribeVolumes", "volume %s not found", id)
	}
	return string(out.Volumes[0].State), nil
}

func (c *EC2Compute) AttachVolume(ctx context.Context, instance domain.InstanceID, volume domain.VolumeID, device string) error {
	_, err := c.client.AttachVolume(ctx, &ec2.AttachVolumeInput{
		InstanceId: aws.String(string(instance)),
		VolumeId:   aws.String(string(volume)),
		Device:     aws.String(device),
	})
	if err != nil {
		return classify("ec2.AttachVolume", err)
	}
	return nil
}

func (c *EC2Compute) RunInstance(ctx context.Context, in RunInstanceInput) (domain.InstanceID, error) {
	out, err := c.client.RunInstances(ctx, &ec2.RunInstancesInput{
		ImageId:      aws.String(in.AMIID),
		InstanceType: ec2types.InstanceType(in.InstanceType),
		SubnetId:     aws.String(in.SubnetID),
		Placement:    &ec2types.Placement{AvailabilityZone: aws.String(in.AvailabilityZone)},
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeInstance,
				Tags:         toEC2Tags(in.Tags),
			},
		},
	})
	if err != nil {
		return "", classify("ec2.RunInstances", err)
	}
	if len(out.Instances) == 0 {
		return "", domain.Ef(domain.KindProvider, "ec2.RunInstances", "no instance returned")
	}
	return domain.InstanceID(aws.ToString(out.Instances[0].InstanceId)), nil
}

func (c *EC2Compute) DescribeInstanceState(ctx context.Context, id domain.InstanceID) (string, error) {
	out, err := c.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{string(id)},
	})
	if err != nil {
		return "", classify("ec2.DescribeInstances", err)
	}
	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			return string(inst.State.Name), nil
		}
	}
	return "", domain.Ef(domain.KindNotFound, "ec2.DescribeInstances", "instance %s not found", id)
}

func (c *EC2Compute) DescribeSubnet(ctx context.Context, subnetID string) (*Subnet, error) {
	out, err := c.client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		SubnetIds: []string{subnetID},
	})
	if err != nil {
		return nil, classify("ec2.DescribeSubnets", err)
	}
	if len(out.Subnets) == 0 {
		return nil, domain.Ef(domain.KindNotFound, "ec2.DescribeSubnets", "subnet %s not found", subnetID)
	}
	subnet := out.Subnets[0]
	return &Subnet{
		ID:               aws.ToString(subnet.SubnetId),
		AvailabilityZone: aws.ToString(subnet.AvailabilityZone),
	}, nil
}

func toEC2Tags(tags map[string]string) []ec2types.Tag {
	out := make([]ec2types.Tag, 0, len(tags))
	for k, v := range tags {
		out = append(out, ec2types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return out
}

func fromEC2Tags(tags []ec2types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}

func fromEC2Snapshot(snap ec2types.Snapshot) *Snapshot {
	var started time.Time
	if snap.StartTime != nil {
		started = *snap.StartTime
	}
	return &Snapshot{
		ID:          domain.SnapshotID(aws.ToString(snap.SnapshotId)),
		VolumeID:    domain.VolumeID(aws.ToString(snap.VolumeId)),
		State:       SnapshotState(snap.State),
		StartTime:   started,
		Description: aws.ToString(snap.Description),
		Tags:        fromEC2Tags(snap.Tags),
	}
}

var _ Compute = (*EC2Compute)(nil)

package restore

import (
	"strings"

	"github.com/smartvault/smartvault/pkg/domain"
)

// Validate checks the request shape before any provider call: the snapshot
// reference, and the launch parameters when an instance was asked for. The
// availability zone is resolved later, after the snapshot is verified, since
// a launch derives it from the subnet.
func Validate(req *domain.RestoreRequest) error {
	if req == nil || req.SnapshotID == "" {
		return domain.Ef(domain.KindValidation, "restore.Validate", "snapshot_id is required")
	}

	if req.LaunchInstance {
		var missing []string
		if req.InstanceType == "" {
			missing = append(missing, "instance_type")
		}
		if req.AMIID == "" {
			missing = append(missing, "ami_id")
		}
		if req.SubnetID == "" {
			missing = append(missing, "subnet_id")
		}
		if len(missing) > 0 {
			return domain.Ef(domain.KindValidation, "restore.Validate",
				"missing required parameters for instance launch: %s", strings.Join(missing, ", "))
		}
	}
	return nil
}

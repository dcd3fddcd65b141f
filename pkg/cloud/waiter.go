package cloud

import (
	"context"
	"time"

	"github.com/smartvault/smartvault/pkg/domain"
)

// WaitConfig bounds a polling wait: fixed delay between attempts, fixed
// attempt budget. Exhausting the budget yields a timeout-kind error rather
// than blocking forever.
type WaitConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

func DefaultWaitConfig() WaitConfig {
	return WaitConfig{Interval: 15 * time.Second, MaxAttempts: 40}
}

func waitUntil(ctx context.Context, wc WaitConfig, op string, poll func(context.Context) (bool, error)) error {
	for attempt := 1; attempt <= wc.MaxAttempts; attempt++ {
		done, err := poll(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt == wc.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wc.Interval):
		}
	}
	return domain.Ef(domain.KindTimeout, op, "state not reached after %d attempts", wc.MaxAttempts)
}

// WaitForSnapshots blocks until every snapshot reports completed. A snapshot
// entering the error state fails the wait immediately; there is no point
// burning the rest of the budget on a copy that can never finish.
func WaitForSnapshots(ctx context.Context, c Compute, ids []domain.SnapshotID, wc WaitConfig) error {
	remaining := make(map[domain.SnapshotID]struct{}, len(ids))
	for _, id := range ids {
		remaining[id] = struct{}{}
	}

	return waitUntil(ctx, wc, "cloud.WaitForSnapshots", func(ctx context.Context) (bool, error) {
		for id := range remaining {
			snap, err := c.DescribeSnapshot(ctx, id)
			if err != nil {
				return false, err
			}
			switch snap.State {
			case SnapshotCompleted:
				delete(remaining, id)
			case SnapshotError:
				return false, domain.Ef(domain.KindProvider, "cloud.WaitForSnapshots", "snapshot %s entered error state", id)
			}
		}
		return len(remaining) == 0, nil
	})
}

func WaitForVolumeAvailable(ctx context.Context, c Compute, id domain.VolumeID, wc WaitConfig) error {
	return waitUntil(ctx, wc, "cloud.WaitForVolumeAvailable", func(ctx context.Context) (bool, error) {
		state, err := c.DescribeVolumeState(ctx, id)
		if err != nil {
			return false, err
		}
		return state == VolumeAvailable, nil
	})
}

func WaitForInstanceRunning(ctx context.Context, c Compute, id domain.InstanceID, wc WaitConfig) error {
	return waitUntil(ctx, wc, "cloud.WaitForInstanceRunning", func(ctx context.Context) (bool, error) {
		state, err := c.DescribeInstanceState(ctx, id)
		if err != nil {
			return false, err
		}
		return state == InstanceRunning, nil
	})
}

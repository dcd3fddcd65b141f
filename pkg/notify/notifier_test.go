package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/require"

	"github.com/smartvault/smartvault/pkg/telemetry"
)

type stubSNS struct {
	calls int
	err   error
	last  *sns.PublishInput
}

func (s *stubSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	s.calls++
	s.last = params
	if s.err != nil {
		return nil, s.err
	}
	return &sns.PublishOutput{}, nil
}

func TestSNSNotifier_Publishes(t *testing.T) {
	stub := &stubSNS{}
	n := NewSNSNotifier(stub, "arn:aws:sns:us-east-1:123456789012:backups", telemetry.NewSlogAdapter())

	n.Notify(context.Background(), "Backup SUCCEEDED", "all good")

	require.Equal(t, 1, stub.calls)
	require.Equal(t, "Backup SUCCEEDED", *stub.last.Subject)
	require.Equal(t, "all good", *stub.last.Message)
}

func TestSNSNotifier_UnconfiguredTopicIsNotAnError(t *testing.T) {
	stub := &stubSNS{}
	n := NewSNSNotifier(stub, "", telemetry.NewSlogAdapter())

	n.Notify(context.Background(), "Backup SUCCEEDED", "all good")

	require.Zero(t, stub.calls)
}

func TestSNSNotifier_PublishFailureIsSwallowed(t *testing.T) {
	stub := &stubSNS{err: errors.New("throttled")}
	n := NewSNSNotifier(stub, "arn:aws:sns:us-east-1:123456789012:backups", telemetry.NewSlogAdapter())

	// Must not panic or propagate.
	n.Notify(context.Background(), "Backup FAILED", "details")
	require.Equal(t, 1, stub.calls)
}

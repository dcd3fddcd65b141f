package notify

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/smartvault/smartvault/pkg/telemetry"
)

// Notifier publishes an outcome summary to a single channel. Notification is
// advisory: implementations never fail the caller.
type Notifier interface {
	Notify(ctx context.Context, subject, body string)
}

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes to an SNS topic. An empty topic ARN is a
// configuration gap, not an error: it is logged once per publish attempt and
// the cycle carries on.
type SNSNotifier struct {
	client   snsAPI
	topicARN string
	logger   telemetry.Logger
}

func NewSNSNotifier(client snsAPI, topicARN string, logger telemetry.Logger) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN, logger: logger}
}

func (n *SNSNotifier) Notify(ctx context.Context, subject, body string) {
	if n.topicARN == "" {
		n.logger.Warn(ctx, "notification skipped: SNS topic not configured", map[string]any{
			"subject": subject,
		})
		return
	}

	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		n.logger.Error(ctx, "failed to publish notification", map[string]any{
			"subject": subject,
			"error":   err.Error(),
		})
		return
	}
	n.logger.Info(ctx, "notification published", map[string]any{"subject": subject})
}

// Recorder captures notifications for tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

type Message struct {
	Subject string
	Body    string
}

func (r *Recorder) Notify(ctx context.Context, subject, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Subject: subject, Body: body})
}

func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/smartvault/smartvault/pkg/domain"
)

type lambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaDispatcher hands the request to a worker Lambda with an async
// (Event) invocation, so the front door returns long before the restore
// finishes.
type LambdaDispatcher struct {
	client      lambdaAPI
	functionARN string
}

func NewLambdaDispatcher(client lambdaAPI, functionARN string) *LambdaDispatcher {
	return &LambdaDispatcher{client: client, functionARN: functionARN}
}

func (d *LambdaDispatcher) Dispatch(ctx context.Context, req *domain.RestoreRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal restore request: %w", err)
	}

	_, err = d.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(d.functionARN),
		InvocationType: lambdatypes.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke worker: %w", err)
	}
	return nil
}

var _ Dispatcher = (*LambdaDispatcher)(nil)

package cloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// KMSKeys implements KeyService against AWS KMS in a single region.
type KMSKeys struct {
	client *kms.Client
}

func NewKMSKeys(ctx context.Context, region string) (*KMSKeys, error) {
	cfg, err := LoadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return &KMSKeys{client: kms.NewFromConfig(cfg)}, nil
}

func NewKMSKeysWithClient(client *kms.Client) *KMSKeys {
	return &KMSKeys{client: client}
}

// DescribeKey checks the key exists and is reachable with the caller's
// permissions. It is the replication stage's precondition: a key that cannot
// be described cannot encrypt any replica.
func (k *KMSKeys) DescribeKey(ctx context.Context, keyID string) error {
	_, err := k.client.DescribeKey(ctx, &kms.DescribeKeyInput{
		KeyId: aws.String(keyID),
	})
	if err != nil {
		return classify("kms.DescribeKey", err)
	}
	return nil
}

var _ KeyService = (*KMSKeys)(nil)

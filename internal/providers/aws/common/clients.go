package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSClient is the narrow STS interface used to resolve the caller
// identity. Tests implement exactly this call, nothing more.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ClientSet bundles the account-level service clients shared across the
// provider layer. Service-specific clients (S3, SQS) are constructed by
// their own packages from the profile's aws.Config.
type ClientSet struct {
	STS STSClient
}

// ClientFactory creates a ClientSet from an AWS config.
// Injection point: tests replace this with a function returning fakes.
type ClientFactory func(cfg aws.Config) *ClientSet

// NewClientSet creates production AWS SDK clients from the given config.
func NewClientSet(cfg aws.Config) *ClientSet {
	return &ClientSet{
		STS: sts.NewFromConfig(cfg),
	}
}

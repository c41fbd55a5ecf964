package awsstorage

import (
	"context"
	"errors"

	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// s3APIClient is the narrow S3 interface used by the bucket collector.
// It covers bucket enumeration and the three configuration categories
// the storage rules evaluate.
type s3APIClient interface {
	ListBuckets(ctx context.Context, params *s3svc.ListBucketsInput, optFns ...func(*s3svc.Options)) (*s3svc.ListBucketsOutput, error)
	GetPublicAccessBlock(ctx context.Context, params *s3svc.GetPublicAccessBlockInput, optFns ...func(*s3svc.Options)) (*s3svc.GetPublicAccessBlockOutput, error)
	GetBucketEncryption(ctx context.Context, params *s3svc.GetBucketEncryptionInput, optFns ...func(*s3svc.Options)) (*s3svc.GetBucketEncryptionOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3svc.GetBucketVersioningInput, optFns ...func(*s3svc.Options)) (*s3svc.GetBucketVersioningOutput, error)
}

// Error codes S3 returns when a configuration category was never set on
// the bucket. Both signal "not configured", which is a rule-policy
// question, not a transport fault.
const (
	pabNotConfiguredCode        = "NoSuchPublicAccessBlockConfiguration"
	encryptionNotConfiguredCode = "ServerSideEncryptionConfigurationNotFoundError"
)

// errorCode extracts the service error code from an SDK error chain.
// Returns the empty string for non-API errors.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

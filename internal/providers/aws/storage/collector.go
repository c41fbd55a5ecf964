package awsstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vanguard-grc/cce-engine/internal/models"
	"github.com/vanguard-grc/cce-engine/internal/providers/aws/common"
)

// BucketCollector enumerates the account's S3 buckets and captures
// per-bucket configuration snapshots. It implements the pipeline's
// ResourceEnumerator and SnapshotSource.
//
// The collector only gathers raw configuration; it never applies policy
// or produces findings.
type BucketCollector struct {
	client    s3APIClient
	accountID string
	region    string
}

// NewBucketCollector returns a BucketCollector backed by a real S3
// client built from the profile's SDK configuration.
func NewBucketCollector(profile *common.ProfileConfig) *BucketCollector {
	return &BucketCollector{
		client:    s3svc.NewFromConfig(profile.Config),
		accountID: profile.AccountID,
		region:    profile.Region,
	}
}

// NewBucketCollectorWithClient returns a BucketCollector using the
// supplied client. Pass a fake in tests.
func NewBucketCollectorWithClient(client s3APIClient, accountID, region string) *BucketCollector {
	return &BucketCollector{client: client, accountID: accountID, region: region}
}

// List enumerates every bucket in the account. S3 bucket listing is a
// global call; the collector's region only stamps the returned refs.
func (c *BucketCollector) List(ctx context.Context) ([]models.ResourceRef, error) {
	out, err := c.client.ListBuckets(ctx, &s3svc.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list S3 buckets: %w", err)
	}

	refs := make([]models.ResourceRef, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		name := aws.ToString(b.Name)
		refs = append(refs, models.ResourceRef{
			Kind:      models.KindS3Bucket,
			Name:      name,
			ARN:       "arn:aws:s3:::" + name,
			Region:    c.region,
			AccountID: c.accountID,
		})
	}
	return refs, nil
}

// Snapshot captures the three configuration categories for one bucket.
// Per-category problems are tagged inside the snapshot (NOT_CONFIGURED
// or ERROR); Snapshot itself returns an error only when the run is
// being cancelled.
func (c *BucketCollector) Snapshot(ctx context.Context, ref models.ResourceRef) (*models.ConfigurationSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := &models.ConfigurationSnapshot{
		Resource:   ref,
		CapturedAt: time.Now().UTC(),
	}

	pab, err := c.publicAccessBlock(ctx, ref.Name)
	if err != nil {
		return nil, err
	}
	snap.PublicAccessBlock = pab

	enc, err := c.encryption(ctx, ref.Name)
	if err != nil {
		return nil, err
	}
	snap.Encryption = enc

	ver, err := c.versioning(ctx, ref.Name)
	if err != nil {
		return nil, err
	}
	snap.Versioning = ver

	return snap, nil
}

// publicAccessBlock captures the bucket's public access block section.
func (c *BucketCollector) publicAccessBlock(ctx context.Context, bucket string) (models.PublicAccessBlockConfig, error) {
	out, err := c.client.GetPublicAccessBlock(ctx, &s3svc.GetPublicAccessBlockInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if isCancellation(err) {
			return models.PublicAccessBlockConfig{}, err
		}
		if errorCode(err) == pabNotConfiguredCode {
			return models.PublicAccessBlockConfig{State: models.ConfigNotConfigured}, nil
		}
		return models.PublicAccessBlockConfig{State: models.ConfigError, Err: err.Error()}, nil
	}

	cfg := out.PublicAccessBlockConfiguration
	if cfg == nil {
		return models.PublicAccessBlockConfig{State: models.ConfigNotConfigured}, nil
	}
	return models.PublicAccessBlockConfig{
		State:                 models.ConfigConfigured,
		BlockPublicACLs:       aws.ToBool(cfg.BlockPublicAcls),
		IgnorePublicACLs:      aws.ToBool(cfg.IgnorePublicAcls),
		BlockPublicPolicy:     aws.ToBool(cfg.BlockPublicPolicy),
		RestrictPublicBuckets: aws.ToBool(cfg.RestrictPublicBuckets),
	}, nil
}

// encryption captures the bucket's default encryption section.
func (c *BucketCollector) encryption(ctx context.Context, bucket string) (models.EncryptionConfig, error) {
	out, err := c.client.GetBucketEncryption(ctx, &s3svc.GetBucketEncryptionInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if isCancellation(err) {
			return models.EncryptionConfig{}, err
		}
		if errorCode(err) == encryptionNotConfiguredCode {
			return models.EncryptionConfig{State: models.ConfigNotConfigured}, nil
		}
		return models.EncryptionConfig{State: models.ConfigError, Err: err.Error()}, nil
	}

	sse := out.ServerSideEncryptionConfiguration
	if sse == nil || len(sse.Rules) == 0 {
		return models.EncryptionConfig{State: models.ConfigNotConfigured}, nil
	}

	enc := models.EncryptionConfig{
		State:     models.ConfigConfigured,
		RuleCount: len(sse.Rules),
	}
	first := sse.Rules[0]
	if def := first.ApplyServerSideEncryptionByDefault; def != nil {
		enc.Algorithm = string(def.SSEAlgorithm)
		enc.KMSKeyARN = aws.ToString(def.KMSMasterKeyID)
	}
	enc.BucketKeyEnabled = aws.ToBool(first.BucketKeyEnabled)
	return enc, nil
}

// versioning captures the bucket's versioning section. S3 returns an
// empty body, not an error, for buckets that never had versioning
// configured.
func (c *BucketCollector) versioning(ctx context.Context, bucket string) (models.VersioningConfig, error) {
	out, err := c.client.GetBucketVersioning(ctx, &s3svc.GetBucketVersioningInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if isCancellation(err) {
			return models.VersioningConfig{}, err
		}
		return models.VersioningConfig{State: models.ConfigError, Err: err.Error()}, nil
	}

	if out.Status == "" {
		return models.VersioningConfig{State: models.ConfigNotConfigured}, nil
	}
	return models.VersioningConfig{
		State:     models.ConfigConfigured,
		Status:    string(out.Status),
		MFADelete: string(out.MFADelete),
	}, nil
}

// isCancellation reports whether err carries the run's own cancellation
// out of an SDK call.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

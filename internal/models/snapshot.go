package models

import "time"

// ResourceKind identifies the kind of cloud resource under evaluation.
type ResourceKind string

const (
	KindS3Bucket ResourceKind = "S3_BUCKET"
)

// ResourceRef identifies a single cloud resource. It is immutable once
// constructed; the ARN is the wire identifier used in evidence records
// and remediation requests.
type ResourceRef struct {
	Kind      ResourceKind `json:"kind"`
	Name      string       `json:"name"`
	ARN       string       `json:"arn"`
	Region    string       `json:"region"`
	AccountID string       `json:"account_id,omitempty"`
}

// ConfigState tags the outcome of fetching one configuration category
// for a resource. Rules branch on the tag: NOT_CONFIGURED is a policy
// question for the rule to answer, ERROR means the category could not
// be read at all and the resource cannot be evaluated this run.
type ConfigState string

const (
	ConfigConfigured    ConfigState = "CONFIGURED"
	ConfigNotConfigured ConfigState = "NOT_CONFIGURED"
	ConfigError         ConfigState = "ERROR"
)

// PublicAccessBlockConfig is the snapshot section for a bucket's public
// access block settings. The four flags are meaningful only when State
// is CONFIGURED.
type PublicAccessBlockConfig struct {
	State                 ConfigState `json:"state"`
	BlockPublicACLs       bool        `json:"block_public_acls"`
	IgnorePublicACLs      bool        `json:"ignore_public_acls"`
	BlockPublicPolicy     bool        `json:"block_public_policy"`
	RestrictPublicBuckets bool        `json:"restrict_public_buckets"`
	Err                   string      `json:"error,omitempty"`
}

// EncryptionConfig is the snapshot section for a bucket's default
// server-side encryption configuration.
type EncryptionConfig struct {
	State            ConfigState `json:"state"`
	RuleCount        int         `json:"rule_count"`
	Algorithm        string      `json:"algorithm,omitempty"`
	KMSKeyARN        string      `json:"kms_key_arn,omitempty"`
	BucketKeyEnabled bool        `json:"bucket_key_enabled,omitempty"`
	Err              string      `json:"error,omitempty"`
}

// VersioningConfig is the snapshot section for a bucket's versioning
// state. Buckets that never had versioning configured report
// NOT_CONFIGURED with an empty Status.
type VersioningConfig struct {
	State     ConfigState `json:"state"`
	Status    string      `json:"status,omitempty"`
	MFADelete string      `json:"mfa_delete,omitempty"`
	Err       string      `json:"error,omitempty"`
}

// ConfigurationSnapshot carries all collected configuration for a single
// resource. It is the sole input to rule evaluation and must contain
// everything a rule needs; rules must never make network calls or read
// external state.
type ConfigurationSnapshot struct {
	Resource          ResourceRef             `json:"resource"`
	CapturedAt        time.Time               `json:"captured_at"`
	PublicAccessBlock PublicAccessBlockConfig `json:"public_access_block"`
	Encryption        EncryptionConfig        `json:"encryption"`
	Versioning        VersioningConfig        `json:"versioning"`
}

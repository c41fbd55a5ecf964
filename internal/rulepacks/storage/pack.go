// Package storage provides the cloud-storage rule pack.
// It groups the bucket compliance checks (public access blocking,
// default encryption, versioning) into a single registration call.
package storage

import (
	"github.com/vanguard-grc/cce-engine/internal/models"
	"github.com/vanguard-grc/cce-engine/internal/rules"
)

// New returns the complete set of storage rules in evaluation order.
// The order is part of the evidence contract: findings appear in each
// record in exactly this sequence.
func New() []rules.Rule {
	return []rules.Rule{
		rules.PublicAccessBlockRule{},
		rules.DefaultEncryptionRule{},
		rules.VersioningRule{},
	}
}

// Register installs the storage pack into reg under the S3 bucket kind.
func Register(reg rules.Registry) {
	for _, r := range New() {
		reg.Register(models.KindS3Bucket, r)
	}
}

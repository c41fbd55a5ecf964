package rules

import (
	"fmt"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// DefaultEncryptionRule checks that a bucket encrypts new objects by
// default. Without a default server-side encryption configuration,
// objects uploaded without explicit SSE settings are stored in plaintext.
type DefaultEncryptionRule struct{}

func (r DefaultEncryptionRule) ID() string {
	return "S3_DEFAULT_ENCRYPTION"
}
func (r DefaultEncryptionRule) Name() string {
	return "S3 Default Encryption"
}

// Evaluate passes when the bucket reports one or more active encryption
// rules. A bucket with no encryption configuration fails the check.
func (r DefaultEncryptionRule) Evaluate(snap *models.ConfigurationSnapshot) (models.Finding, error) {
	enc := snap.Encryption
	switch enc.State {
	case models.ConfigError:
		return models.Finding{}, &CheckError{CheckID: r.ID(), Reason: enc.Err}
	case models.ConfigNotConfigured:
		return models.Finding{
			CheckID: r.ID(),
			Status:  models.StatusFail,
			Details: fmt.Sprintf("bucket %q has no default encryption configuration", snap.Resource.Name),
		}, nil
	}

	if enc.RuleCount < 1 {
		return models.Finding{
			CheckID: r.ID(),
			Status:  models.StatusFail,
			Details: "encryption configuration present but contains no rules",
		}, nil
	}
	return models.Finding{
		CheckID: r.ID(),
		Status:  models.StatusPass,
		Details: fmt.Sprintf("default encryption enabled (%s)", enc.Algorithm),
	}, nil
}

package rules

import (
	"fmt"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// versioningEnabled is the only status value S3 reports for a bucket
// with versioning active. "Suspended" and an absent configuration both
// leave objects unprotected against overwrite and deletion.
const versioningEnabled = "Enabled"

// VersioningRule checks that object versioning is active on the bucket.
type VersioningRule struct{}

func (r VersioningRule) ID() string {
	return "S3_VERSIONING"
}
func (r VersioningRule) Name() string {
	return "S3 Versioning"
}

// Evaluate passes only when the reported status is exactly "Enabled".
// A bucket where versioning was never configured, or was suspended
// after being enabled, fails the check.
func (r VersioningRule) Evaluate(snap *models.ConfigurationSnapshot) (models.Finding, error) {
	ver := snap.Versioning
	switch ver.State {
	case models.ConfigError:
		return models.Finding{}, &CheckError{CheckID: r.ID(), Reason: ver.Err}
	case models.ConfigNotConfigured:
		return models.Finding{
			CheckID: r.ID(),
			Status:  models.StatusFail,
			Details: fmt.Sprintf("bucket %q has never had versioning enabled", snap.Resource.Name),
		}, nil
	}

	if ver.Status != versioningEnabled {
		return models.Finding{
			CheckID: r.ID(),
			Status:  models.StatusFail,
			Details: fmt.Sprintf("versioning status is %q; want %q", ver.Status, versioningEnabled),
		}, nil
	}
	return models.Finding{
		CheckID: r.ID(),
		Status:  models.StatusPass,
		Details: "versioning is enabled",
	}, nil
}

package rules

import (
	"fmt"
	"strings"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// PublicAccessBlockRule checks that a bucket blocks all forms of public
// access. A bucket is compliant only when every one of the four public
// access block settings is explicitly enabled; a partially configured
// block still leaves a path to public exposure.
type PublicAccessBlockRule struct{}

func (r PublicAccessBlockRule) ID() string {
	return "S3_PUBLIC_ACCESS_BLOCK"
}
func (r PublicAccessBlockRule) Name() string {
	return "S3 Public Access Block"
}

// Evaluate passes only when all four flags are true. A bucket with no
// public access block configuration at all fails the check; absence of
// protection is non-compliance, not a transport fault.
func (r PublicAccessBlockRule) Evaluate(snap *models.ConfigurationSnapshot) (models.Finding, error) {
	pab := snap.PublicAccessBlock
	switch pab.State {
	case models.ConfigError:
		return models.Finding{}, &CheckError{CheckID: r.ID(), Reason: pab.Err}
	case models.ConfigNotConfigured:
		return models.Finding{
			CheckID: r.ID(),
			Status:  models.StatusFail,
			Details: fmt.Sprintf("bucket %q has no public access block configuration", snap.Resource.Name),
		}, nil
	}

	if pab.BlockPublicACLs && pab.IgnorePublicACLs && pab.BlockPublicPolicy && pab.RestrictPublicBuckets {
		return models.Finding{
			CheckID: r.ID(),
			Status:  models.StatusPass,
			Details: "all four public access block settings are enabled",
		}, nil
	}
	return models.Finding{
		CheckID: r.ID(),
		Status:  models.StatusFail,
		Details: fmt.Sprintf("public access block is incomplete: %s disabled", strings.Join(disabledBlockFlags(pab), ", ")),
	}, nil
}

// disabledBlockFlags names the flags that are off, in the order AWS
// documents them, for the finding details.
func disabledBlockFlags(pab models.PublicAccessBlockConfig) []string {
	var off []string
	if !pab.BlockPublicACLs {
		off = append(off, "BlockPublicAcls")
	}
	if !pab.IgnorePublicACLs {
		off = append(off, "IgnorePublicAcls")
	}
	if !pab.BlockPublicPolicy {
		off = append(off, "BlockPublicPolicy")
	}
	if !pab.RestrictPublicBuckets {
		off = append(off, "RestrictPublicBuckets")
	}
	return off
}

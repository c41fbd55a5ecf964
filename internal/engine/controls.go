package engine

import "github.com/vanguard-grc/cce-engine/internal/models"

// Static mappings from resource kinds and check IDs to compliance
// metadata. These tables are part of the evidence wire contract:
// entries may be added for new kinds and checks but existing entries
// are never reassigned.

// controlByKind names the compliance control each resource kind's rule
// set provides evidence for.
var controlByKind = map[models.ResourceKind]string{
	models.KindS3Bucket: "CM-6",
}

// ksiByKind names the Key Security Indicator each resource kind's
// evidence reports under.
var ksiByKind = map[models.ResourceKind]string{
	models.KindS3Bucket: "KSI-SVC-04",
}

// remediationProcedure pairs the action understood by the remediation
// worker with the playbook that implements the fix.
type remediationProcedure struct {
	action   string
	playbook string
}

// remediationByCheck maps each check ID to its remediation procedure.
var remediationByCheck = map[string]remediationProcedure{
	"S3_PUBLIC_ACCESS_BLOCK": {
		action:   "remediate_s3_public_access",
		playbook: "remediation_playbooks/s3_public_access_fix.tf",
	},
	"S3_DEFAULT_ENCRYPTION": {
		action:   "remediate_s3_default_encryption",
		playbook: "remediation_playbooks/s3_default_encryption_fix.tf",
	},
	"S3_VERSIONING": {
		action:   "remediate_s3_versioning",
		playbook: "remediation_playbooks/s3_versioning_fix.tf",
	},
}

// genericRemediation is the fallback for failing checks with no mapped
// procedure, so a non-compliant resource is never silently dropped.
var genericRemediation = remediationProcedure{
	action:   "remediate_manual_review",
	playbook: "remediation_playbooks/manual_review.md",
}

// RemediationPlan returns the action and playbook dispatched when the
// given check fails. Unmapped checks fall back to manual review.
func RemediationPlan(checkID string) (action, playbook string) {
	proc, ok := remediationByCheck[checkID]
	if !ok {
		proc = genericRemediation
	}
	return proc.action, proc.playbook
}

// ControlFor returns the compliance control a resource kind's evidence
// reports against, or "" for an unmapped kind.
func ControlFor(kind models.ResourceKind) string {
	return controlByKind[kind]
}

package rules

import (
	"fmt"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// Rule is a single deterministic compliance check over one resource's
// configuration snapshot. Rules must be stateless and safe to call
// concurrently. They must never call the AWS SDK or any external service;
// everything a rule needs is in the snapshot.
type Rule interface {
	// ID returns the unique, stable check identifier for this rule
	// (e.g. "S3_PUBLIC_ACCESS_BLOCK"). Downstream consumers key
	// cross-run comparisons on it, so its meaning must never change
	// once published.
	ID() string

	// Name returns a short human-readable rule name.
	Name() string

	// Evaluate inspects the snapshot and returns exactly one finding.
	// A non-compliant resource is a FAIL finding, never an error; an
	// error means the rule could not be evaluated at all.
	Evaluate(snap *models.ConfigurationSnapshot) (models.Finding, error)
}

// Registry manages the ordered set of active rules per resource kind.
type Registry interface {
	// Register appends rule to the list for kind. Panics on duplicate check ID.
	Register(kind models.ResourceKind, rule Rule)

	// RulesFor returns the rules registered for kind in registration order.
	RulesFor(kind models.ResourceKind) []Rule
}

// CheckError reports that a rule could not determine a finding because a
// configuration section could not be read. It is a processing failure,
// distinct from a FAIL finding: the resource is excluded from evidence
// for the run and recorded in the summary's failed-to-process list.
type CheckError struct {
	CheckID string
	Reason  string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check %s: %s", e.CheckID, e.Reason)
}

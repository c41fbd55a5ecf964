package engine

import "github.com/vanguard-grc/cce-engine/internal/models"

// RemediationPolicy decides whether an evaluation outcome requires a
// remediation request and constructs it.
type RemediationPolicy struct {
	clock Clock
}

// NewRemediationPolicy constructs a policy using clock for request
// timestamps.
func NewRemediationPolicy(clock Clock) *RemediationPolicy {
	return &RemediationPolicy{clock: clock}
}

// Decide returns nil when the resource passed every check. On FAIL it
// returns exactly one request; multiple failing checks on the same
// resource still yield a single consolidated request, keyed off the
// first failing finding in evaluation order.
func (p *RemediationPolicy) Decide(result *models.EvaluationResult) *models.RemediationRequest {
	if result.Overall != models.StatusFail {
		return nil
	}
	proc := procedureFor(result)
	return &models.RemediationRequest{
		Action:          proc.action,
		TargetID:        result.Resource.ARN,
		RemediationPath: proc.playbook,
		Timestamp:       p.clock.Now(),
	}
}

// procedureFor picks the remediation procedure for the first failing
// finding with a mapped check ID.
func procedureFor(result *models.EvaluationResult) remediationProcedure {
	for _, f := range result.Findings {
		if f.Status != models.StatusFail {
			continue
		}
		if proc, ok := remediationByCheck[f.CheckID]; ok {
			return proc
		}
	}
	return genericRemediation
}

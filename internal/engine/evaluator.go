package engine

import (
	"fmt"

	"github.com/vanguard-grc/cce-engine/internal/models"
	"github.com/vanguard-grc/cce-engine/internal/rules"
)

// Evaluator runs every registered rule against one resource's snapshot
// and derives the overall status.
type Evaluator struct {
	registry rules.Registry
}

// NewEvaluator constructs an Evaluator backed by registry.
func NewEvaluator(registry rules.Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// Evaluate applies all rules for the resource's kind in registry order.
// Every rule runs even after a FAIL finding, so one evidence record
// reflects every check rather than just the first failure. A rule error
// aborts evaluation for this resource only; the overall status is FAIL
// iff at least one finding is FAIL.
func (ev *Evaluator) Evaluate(snap *models.ConfigurationSnapshot) (*models.EvaluationResult, error) {
	ruleSet := ev.registry.RulesFor(snap.Resource.Kind)
	if len(ruleSet) == 0 {
		return nil, fmt.Errorf("no rules registered for resource kind %q", snap.Resource.Kind)
	}

	result := &models.EvaluationResult{
		Resource: snap.Resource,
		Findings: make([]models.Finding, 0, len(ruleSet)),
		Overall:  models.StatusPass,
	}
	for _, rule := range ruleSet {
		finding, err := rule.Evaluate(snap)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s on %q: %w", rule.ID(), snap.Resource.Name, err)
		}
		result.Findings = append(result.Findings, finding)
		if finding.Status == models.StatusFail {
			result.Overall = models.StatusFail
		}
	}
	return result, nil
}

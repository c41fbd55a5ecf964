package engine

import "github.com/vanguard-grc/cce-engine/internal/models"

const (
	// evidenceSchemaVersion changes only on breaking changes to the
	// evidence record wire format.
	evidenceSchemaVersion = "1.0.0"

	validationTypeAutomated = "Automated"

	rawSeverityHigh = "High"
	rawSeverityNone = "N/A"

	// noRemediation marks records for resources that passed every check.
	noRemediation = "N/A"
)

// EvidenceBuilder shapes evaluation results into schema-stable evidence
// records for delivery to the GRC agent.
type EvidenceBuilder struct {
	engineID string
	clock    Clock
}

// NewEvidenceBuilder constructs a builder stamping records with engineID.
func NewEvidenceBuilder(engineID string, clock Clock) *EvidenceBuilder {
	return &EvidenceBuilder{engineID: engineID, clock: clock}
}

// Build derives one evidence record from result. Findings are copied in
// evaluation order, never filtered or reordered. The record is complete
// and immutable on return.
func (b *EvidenceBuilder) Build(result *models.EvaluationResult) *models.EvidenceRecord {
	findings := make([]models.Finding, len(result.Findings))
	copy(findings, result.Findings)

	rec := &models.EvidenceRecord{
		EngineID:        b.engineID,
		SchemaVersion:   evidenceSchemaVersion,
		KSIID:           ksiByKind[result.Resource.Kind],
		ControlID:       controlByKind[result.Resource.Kind],
		TargetID:        result.Resource.ARN,
		ValidationType:  validationTypeAutomated,
		Status:          result.Overall,
		RawSeverity:     rawSeverityNone,
		Findings:        findings,
		RemediationPath: noRemediation,
		Timestamp:       b.clock.Now(),
	}
	if result.Overall == models.StatusFail {
		rec.RawSeverity = rawSeverityHigh
		rec.RemediationPath = procedureFor(result).playbook
	}
	return rec
}

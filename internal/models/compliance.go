package models

import "time"

// CheckStatus is the outcome of a compliance check. FAIL is the expected,
// successfully-evaluated outcome for a non-compliant resource; it is
// never conflated with a processing error.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusFail CheckStatus = "FAIL"
)

// Finding is the outcome of exactly one rule against exactly one resource.
// It is the atomic output unit of the rule engine. Immutable.
type Finding struct {
	CheckID string      `json:"check_id"`
	Status  CheckStatus `json:"status"`
	Details string      `json:"details"`
}

// EvaluationResult aggregates all findings for one resource.
// Overall is FAIL iff at least one finding has status FAIL; findings are
// ordered by registry registration order so output is reproducible.
type EvaluationResult struct {
	Resource ResourceRef `json:"resource"`
	Findings []Finding   `json:"findings"`
	Overall  CheckStatus `json:"overall_status"`
}

// EvidenceRecord is the externally-delivered, schema-stable summary of
// all findings for one resource. The JSON field names are a wire
// contract shared with the Vanguard GRC agent and must not change.
type EvidenceRecord struct {
	EngineID        string      `json:"engine_id"`
	SchemaVersion   string      `json:"schema_version"`
	KSIID           string      `json:"ksi_id"`
	ControlID       string      `json:"control_id"`
	TargetID        string      `json:"target_id"`
	ValidationType  string      `json:"validation_type"`
	Status          CheckStatus `json:"status"`
	RawSeverity     string      `json:"raw_severity"`
	Findings        []Finding   `json:"findings"`
	RemediationPath string      `json:"remediation_path"`
	Timestamp       time.Time   `json:"timestamp"`
}

// RemediationRequest instructs a downstream worker to fix a
// non-compliant resource. At most one request is issued per resource
// per run, regardless of how many checks failed.
type RemediationRequest struct {
	Action          string    `json:"action"`
	TargetID        string    `json:"target_id"`
	RemediationPath string    `json:"remediation_path"`
	Timestamp       time.Time `json:"timestamp"`
}

// ResourceOutcome records what happened to a single resource during one
// pipeline run. Exactly one of Status or Error is meaningful: a resource
// that could not be evaluated carries Error and no findings.
type ResourceOutcome struct {
	Resource             ResourceRef `json:"resource"`
	Status               CheckStatus `json:"status,omitempty"`
	Findings             []Finding   `json:"findings,omitempty"`
	EvidenceDelivered    bool        `json:"evidence_delivered"`
	RemediationRequested bool        `json:"remediation_requested"`
	Error                string      `json:"error,omitempty"`
}

// RunSummary is the top-level output of one pipeline invocation.
// FailedToProcess lists resource identifiers in enumeration order so
// callers can distinguish "all resources are compliant" from "some
// resources could not be checked."
type RunSummary struct {
	RunID                string            `json:"run_id"`
	EngineID             string            `json:"engine_id"`
	StartedAt            time.Time         `json:"started_at"`
	FinishedAt           time.Time         `json:"finished_at"`
	ProcessedCount       int               `json:"processed_count"`
	PassedCount          int               `json:"passed_count"`
	FailedCount          int               `json:"failed_count"`
	RemediationRequested int               `json:"remediation_requested"`
	FailedToProcess      []string          `json:"failed_to_process"`
	Results              []ResourceOutcome `json:"results"`
}

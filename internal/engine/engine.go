package engine

import (
	"context"
	"log"

	"github.com/vanguard-grc/cce-engine/internal/models"
	"github.com/vanguard-grc/cce-engine/internal/rules"
)

// ResourceEnumerator lists the resources to evaluate. Enumeration
// failure is fatal to the run: without a resource list nothing can
// proceed.
type ResourceEnumerator interface {
	List(ctx context.Context) ([]models.ResourceRef, error)
}

// SnapshotSource fetches the configuration snapshot for one resource.
// Per-category fetch problems are tagged inside the snapshot sections;
// Snapshot returns an error only when the resource cannot be read at
// all or the context is cancelled.
type SnapshotSource interface {
	Snapshot(ctx context.Context, ref models.ResourceRef) (*models.ConfigurationSnapshot, error)
}

// EvidenceSink delivers evidence records to the GRC agent.
// Delivery failure is logged and never fails the run.
type EvidenceSink interface {
	Send(ctx context.Context, rec *models.EvidenceRecord) error
}

// RemediationSink dispatches remediation requests to the downstream
// remediation worker. Dispatch failure is logged and never fails the run.
type RemediationSink interface {
	Dispatch(ctx context.Context, req *models.RemediationRequest) error
}

// Pipeline is the central orchestration interface. One Run call
// evaluates every enumerated resource, emits evidence, requests
// remediation for failures, and returns a summary. The pipeline holds
// no state across invocations; every run re-evaluates from scratch.
type Pipeline interface {
	Run(ctx context.Context) (*models.RunSummary, error)
}

const (
	defaultEngineID = "cce-engine"
	defaultWorkers  = 4
)

// PipelineOptions configures a DefaultPipeline. The zero value selects
// the production defaults.
type PipelineOptions struct {
	// EngineID identifies this engine instance in evidence records and
	// the run summary. Defaults to "cce-engine".
	EngineID string

	// Workers caps concurrent resource evaluations. Defaults to 4.
	Workers int

	// Clock supplies timestamps. Defaults to the system clock in UTC.
	// The pipeline wraps it so timestamps never decrease within a run.
	Clock Clock

	// Logger receives delivery and processing failures. Defaults to the
	// standard logger.
	Logger *log.Logger
}

// DefaultPipeline is the production implementation of Pipeline.
// It coordinates enumeration, snapshot collection, rule evaluation,
// evidence emission, and remediation dispatch. It never calls the AWS
// SDK or any transport directly; collaborators are injected so tests
// can substitute doubles.
type DefaultPipeline struct {
	enumerator  ResourceEnumerator
	source      SnapshotSource
	evaluator   *Evaluator
	builder     *EvidenceBuilder
	policy      *RemediationPolicy
	evidence    EvidenceSink
	remediation RemediationSink

	engineID string
	workers  int
	logger   *log.Logger
}

// NewDefaultPipeline constructs a DefaultPipeline wired to the supplied
// enumerator, snapshot source, rule registry, and sinks.
func NewDefaultPipeline(
	enumerator ResourceEnumerator,
	source SnapshotSource,
	registry rules.Registry,
	evidence EvidenceSink,
	remediation RemediationSink,
	opts PipelineOptions,
) *DefaultPipeline {
	engineID := opts.EngineID
	if engineID == "" {
		engineID = defaultEngineID
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	// One shared monotonic clock keeps evidence timestamps non-decreasing
	// across records within a run.
	mono := newMonotonicClock(clock)

	return &DefaultPipeline{
		enumerator:  enumerator,
		source:      source,
		evaluator:   NewEvaluator(registry),
		builder:     NewEvidenceBuilder(engineID, mono),
		policy:      NewRemediationPolicy(mono),
		evidence:    evidence,
		remediation: remediation,
		engineID:    engineID,
		workers:     workers,
		logger:      logger,
	}
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// resourceSlot holds the outcome for one enumerated resource. Slots are
// index-addressed so concurrent workers write disjoint entries without
// locking and the summary preserves enumeration order.
type resourceSlot struct {
	outcome models.ResourceOutcome
	skipped bool
}

// Run implements Pipeline. Enumeration failure is the only error
// return; every other failure class is absorbed into the summary.
// Cancellation truncates the resource loop: resources not yet evaluated
// are left out of the summary entirely, and whatever was processed is
// reported as usual.
func (p *DefaultPipeline) Run(ctx context.Context) (*models.RunSummary, error) {
	startedAt := time.Now().UTC()

	refs, err := p.enumerator.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate resources: %w", err)
	}

	slots := make([]resourceSlot, len(refs))
	dispatched := make([]bool, len(refs))

	// The semaphore channel limits concurrent in-flight resource
	// evaluations to p.workers. Workers absorb per-resource failures
	// into their slots and never return an error, so the group context
	// is done only when the caller's context is.
	sem := make(chan struct{}, p.workers)
	g, gctx := errgroup.WithContext(ctx)

RESOURCES:
	for i := range refs {
		i := i // capture loop variable for goroutine closure
		select {
		case sem <- struct{}{}: // acquire semaphore slot; blocks when at capacity
		case <-gctx.Done():
			break RESOURCES // run cancelled; truncate the loop
		}
		dispatched[i] = true

		g.Go(func() error {
			defer func() { <-sem }() // release semaphore slot on return
			slots[i] = p.processResource(gctx, refs[i])
			return nil
		})
	}
	_ = g.Wait()

	summary := &models.RunSummary{
		RunID:           fmt.Sprintf("run-%s", uuid.NewString()),
		EngineID:        p.engineID,
		StartedAt:       startedAt,
		FinishedAt:      time.Now().UTC(),
		FailedToProcess: []string{},
	}
	for i := range slots {
		if !dispatched[i] || slots[i].skipped {
			continue
		}
		out := slots[i].outcome
		summary.Results = append(summary.Results, out)
		if out.Error != "" {
			summary.FailedToProcess = append(summary.FailedToProcess, refs[i].Name)
			continue
		}
		summary.ProcessedCount++
		switch out.Status {
		case models.StatusPass:
			summary.PassedCount++
		case models.StatusFail:
			summary.FailedCount++
		}
		if out.RemediationRequested {
			summary.RemediationRequested++
		}
	}
	return summary, nil
}

// processResource runs the evaluate → emit evidence → dispatch
// remediation sequence for one resource. Evidence emission always
// happens before remediation dispatch for the same resource. Delivery
// failures are logged and do not count as processing failures.
func (p *DefaultPipeline) processResource(ctx context.Context, ref models.ResourceRef) resourceSlot {
	outcome := models.ResourceOutcome{Resource: ref}

	snap, err := p.source.Snapshot(ctx, ref)
	if err != nil {
		if isCancellation(err) {
			return resourceSlot{outcome: outcome, skipped: true}
		}
		p.logger.Printf("ERROR - snapshot %s: %v", ref.Name, err)
		outcome.Error = err.Error()
		return resourceSlot{outcome: outcome}
	}

	result, err := p.evaluator.Evaluate(snap)
	if err != nil {
		p.logger.Printf("ERROR - evaluate %s: %v", ref.Name, err)
		outcome.Error = err.Error()
		return resourceSlot{outcome: outcome}
	}
	outcome.Status = result.Overall
	outcome.Findings = result.Findings

	rec := p.builder.Build(result)
	if err := p.evidence.Send(ctx, rec); err != nil {
		p.logger.Printf("ERROR - deliver evidence for %s: %v", ref.Name, err)
	} else {
		outcome.EvidenceDelivered = true
	}

	if req := p.policy.Decide(result); req != nil {
		outcome.RemediationRequested = true
		if err := p.remediation.Dispatch(ctx, req); err != nil {
			p.logger.Printf("ERROR - dispatch remediation for %s: %v", ref.Name, err)
		}
	}
	return resourceSlot{outcome: outcome}
}

// isCancellation reports whether err is the run's own cancellation
// surfacing through a collaborator call.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

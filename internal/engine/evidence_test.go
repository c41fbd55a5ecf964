package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// ── test doubles ──────────────────────────────────────────────────────────────

// fixedClock always returns the same instant.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// backwardsClock steps one second into the past on every call,
// simulating a wall clock adjustment mid-run.
type backwardsClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *backwardsClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(-time.Second)
	return c.t
}

// ── record shape ──────────────────────────────────────────────────────────────

func TestEvidenceBuilder_PassingResult(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewEvidenceBuilder("cce-engine", fixedClock{t: now})

	result := &models.EvaluationResult{
		Resource: models.ResourceRef{Kind: models.KindS3Bucket, Name: "good", ARN: "arn:aws:s3:::good"},
		Findings: []models.Finding{
			{CheckID: "S3_PUBLIC_ACCESS_BLOCK", Status: models.StatusPass, Details: "ok"},
			{CheckID: "S3_DEFAULT_ENCRYPTION", Status: models.StatusPass, Details: "ok"},
			{CheckID: "S3_VERSIONING", Status: models.StatusPass, Details: "ok"},
		},
		Overall: models.StatusPass,
	}
	rec := b.Build(result)

	if rec.EngineID != "cce-engine" {
		t.Errorf("engine_id: got %q", rec.EngineID)
	}
	if rec.SchemaVersion != "1.0.0" {
		t.Errorf("schema_version: got %q; want 1.0.0", rec.SchemaVersion)
	}
	if rec.KSIID != "KSI-SVC-04" {
		t.Errorf("ksi_id: got %q; want KSI-SVC-04", rec.KSIID)
	}
	if rec.ControlID != "CM-6" {
		t.Errorf("control_id: got %q; want CM-6", rec.ControlID)
	}
	if rec.TargetID != "arn:aws:s3:::good" {
		t.Errorf("target_id: got %q; want the resource ARN", rec.TargetID)
	}
	if rec.ValidationType != "Automated" {
		t.Errorf("validation_type: got %q; want Automated", rec.ValidationType)
	}
	if rec.Status != models.StatusPass {
		t.Errorf("status: got %q; want PASS", rec.Status)
	}
	if rec.RawSeverity != "N/A" {
		t.Errorf("raw_severity: got %q; want N/A on PASS", rec.RawSeverity)
	}
	if rec.RemediationPath != "N/A" {
		t.Errorf("remediation_path: got %q; want N/A on PASS", rec.RemediationPath)
	}
	if !rec.Timestamp.Equal(now) {
		t.Errorf("timestamp: got %v; want %v", rec.Timestamp, now)
	}
	if len(rec.Findings) != 3 {
		t.Errorf("got %d findings; want 3", len(rec.Findings))
	}
}

func TestEvidenceBuilder_FailingResult(t *testing.T) {
	b := NewEvidenceBuilder("cce-engine", fixedClock{t: time.Now().UTC()})

	result := &models.EvaluationResult{
		Resource: models.ResourceRef{Kind: models.KindS3Bucket, Name: "bad", ARN: "arn:aws:s3:::bad"},
		Findings: []models.Finding{
			{CheckID: "S3_PUBLIC_ACCESS_BLOCK", Status: models.StatusPass, Details: "ok"},
			{CheckID: "S3_DEFAULT_ENCRYPTION", Status: models.StatusFail, Details: "missing"},
			{CheckID: "S3_VERSIONING", Status: models.StatusFail, Details: "suspended"},
		},
		Overall: models.StatusFail,
	}
	rec := b.Build(result)

	if rec.Status != models.StatusFail {
		t.Errorf("status: got %q; want FAIL", rec.Status)
	}
	if rec.RawSeverity != "High" {
		t.Errorf("raw_severity: got %q; want High on FAIL", rec.RawSeverity)
	}
	// Remediation path follows the first failing check in order.
	if rec.RemediationPath != "remediation_playbooks/s3_default_encryption_fix.tf" {
		t.Errorf("remediation_path: got %q; want the encryption playbook", rec.RemediationPath)
	}
}

// TestEvidenceBuilder_FindingsPreservedVerbatim verifies that the record
// carries every finding in evaluation order and that later mutation of
// the result does not leak into the built record.
func TestEvidenceBuilder_FindingsPreservedVerbatim(t *testing.T) {
	b := NewEvidenceBuilder("cce-engine", fixedClock{t: time.Now().UTC()})

	result := &models.EvaluationResult{
		Resource: models.ResourceRef{Kind: models.KindS3Bucket, Name: "b", ARN: "arn:aws:s3:::b"},
		Findings: []models.Finding{
			{CheckID: "S3_PUBLIC_ACCESS_BLOCK", Status: models.StatusFail, Details: "open"},
			{CheckID: "S3_DEFAULT_ENCRYPTION", Status: models.StatusPass, Details: "AES256"},
			{CheckID: "S3_VERSIONING", Status: models.StatusPass, Details: "enabled"},
		},
		Overall: models.StatusFail,
	}
	rec := b.Build(result)

	result.Findings[0].Details = "mutated"
	if rec.Findings[0].Details != "open" {
		t.Error("record findings must be a copy, not an alias of the result slice")
	}
	want := []string{"S3_PUBLIC_ACCESS_BLOCK", "S3_DEFAULT_ENCRYPTION", "S3_VERSIONING"}
	for i, id := range want {
		if rec.Findings[i].CheckID != id {
			t.Errorf("finding[%d]: got %q; want %q", i, rec.Findings[i].CheckID, id)
		}
	}
}

// ── timestamp monotonicity ────────────────────────────────────────────────────

// TestEvidenceBuilder_TimestampsNeverDecrease verifies that records
// built later in a run never carry an earlier timestamp, even when the
// underlying clock steps backwards.
func TestEvidenceBuilder_TimestampsNeverDecrease(t *testing.T) {
	base := &backwardsClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	b := NewEvidenceBuilder("cce-engine", newMonotonicClock(base))

	result := &models.EvaluationResult{
		Resource: models.ResourceRef{Kind: models.KindS3Bucket, Name: "b", ARN: "arn:aws:s3:::b"},
		Findings: []models.Finding{{CheckID: "S3_VERSIONING", Status: models.StatusPass}},
		Overall:  models.StatusPass,
	}

	prev := b.Build(result).Timestamp
	for i := 0; i < 5; i++ {
		ts := b.Build(result).Timestamp
		if ts.Before(prev) {
			t.Fatalf("timestamp decreased: %v after %v", ts, prev)
		}
		prev = ts
	}
}

func TestMonotonicClock_ClampsBackwardSteps(t *testing.T) {
	base := &backwardsClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	mono := newMonotonicClock(base)

	first := mono.Now()
	second := mono.Now()
	if second.Before(first) {
		t.Errorf("monotonic clock went backwards: %v then %v", first, second)
	}
	if !second.Equal(first) {
		t.Errorf("backwards base clock should clamp to the last value, got %v then %v", first, second)
	}
}

package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vanguard-grc/cce-engine/internal/models"
	"github.com/vanguard-grc/cce-engine/internal/rulepacks/storage"
	"github.com/vanguard-grc/cce-engine/internal/rules"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

// storageRegistry returns a registry loaded with the storage rule pack.
func storageRegistry() rules.Registry {
	reg := rules.NewDefaultRegistry()
	storage.Register(reg)
	return reg
}

// passingSnapshot returns a snapshot for one bucket that passes every
// storage rule. Tests break individual sections to build scenarios.
func passingSnapshot(name string) *models.ConfigurationSnapshot {
	return &models.ConfigurationSnapshot{
		Resource: models.ResourceRef{
			Kind:   models.KindS3Bucket,
			Name:   name,
			ARN:    "arn:aws:s3:::" + name,
			Region: "us-east-1",
		},
		PublicAccessBlock: models.PublicAccessBlockConfig{
			State:                 models.ConfigConfigured,
			BlockPublicACLs:       true,
			IgnorePublicACLs:      true,
			BlockPublicPolicy:     true,
			RestrictPublicBuckets: true,
		},
		Encryption: models.EncryptionConfig{
			State:     models.ConfigConfigured,
			RuleCount: 1,
			Algorithm: "AES256",
		},
		Versioning: models.VersioningConfig{
			State:  models.ConfigConfigured,
			Status: "Enabled",
		},
	}
}

// ── overall status invariant ──────────────────────────────────────────────────

func TestEvaluator_AllChecksPass_OverallPass(t *testing.T) {
	ev := NewEvaluator(storageRegistry())

	result, err := ev.Evaluate(passingSnapshot("good-bucket"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Overall != models.StatusPass {
		t.Errorf("overall: got %q; want PASS", result.Overall)
	}
	if len(result.Findings) != 3 {
		t.Fatalf("got %d findings; want 3", len(result.Findings))
	}
	for _, f := range result.Findings {
		if f.Status != models.StatusPass {
			t.Errorf("finding %s: got %q; want PASS", f.CheckID, f.Status)
		}
	}
}

func TestEvaluator_SingleFailure_OverallFail(t *testing.T) {
	ev := NewEvaluator(storageRegistry())
	snap := passingSnapshot("suspended-bucket")
	snap.Versioning.Status = "Suspended"

	result, err := ev.Evaluate(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Overall != models.StatusFail {
		t.Errorf("overall: got %q; want FAIL when one check fails", result.Overall)
	}
}

// TestEvaluator_FailureDoesNotShortCircuit verifies that evaluation
// continues past a failing check: every registered rule contributes a
// finding to the result.
func TestEvaluator_FailureDoesNotShortCircuit(t *testing.T) {
	ev := NewEvaluator(storageRegistry())
	snap := passingSnapshot("open-bucket")
	snap.PublicAccessBlock = models.PublicAccessBlockConfig{State: models.ConfigNotConfigured}

	result, err := ev.Evaluate(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Findings) != 3 {
		t.Fatalf("got %d findings; want all 3 despite early failure", len(result.Findings))
	}
	if result.Findings[0].Status != models.StatusFail {
		t.Errorf("first finding: got %q; want FAIL", result.Findings[0].Status)
	}
	for _, f := range result.Findings[1:] {
		if f.Status != models.StatusPass {
			t.Errorf("finding %s: got %q; want PASS", f.CheckID, f.Status)
		}
	}
}

// ── finding order ─────────────────────────────────────────────────────────────

func TestEvaluator_FindingsFollowRegistrationOrder(t *testing.T) {
	ev := NewEvaluator(storageRegistry())

	result, err := ev.Evaluate(passingSnapshot("ordered-bucket"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"S3_PUBLIC_ACCESS_BLOCK", "S3_DEFAULT_ENCRYPTION", "S3_VERSIONING"}
	for i, id := range want {
		if result.Findings[i].CheckID != id {
			t.Errorf("finding[%d]: got %q; want %q", i, result.Findings[i].CheckID, id)
		}
	}
}

// ── determinism ───────────────────────────────────────────────────────────────

func TestEvaluator_RepeatedEvaluationIsIdentical(t *testing.T) {
	ev := NewEvaluator(storageRegistry())
	snap := passingSnapshot("stable-bucket")
	snap.Encryption = models.EncryptionConfig{State: models.ConfigNotConfigured}

	first, err1 := ev.Evaluate(snap)
	second, err2 := ev.Evaluate(snap)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated evaluation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// ── error paths ───────────────────────────────────────────────────────────────

func TestEvaluator_RuleError_AbortsResource(t *testing.T) {
	ev := NewEvaluator(storageRegistry())
	snap := passingSnapshot("denied-bucket")
	snap.Encryption = models.EncryptionConfig{
		State: models.ConfigError,
		Err:   "AccessDenied: not authorized",
	}

	result, err := ev.Evaluate(snap)
	if err == nil {
		t.Fatal("want error when a rule cannot evaluate, got nil")
	}
	if result != nil {
		t.Errorf("want nil result on rule error, got %+v", result)
	}
	var ce *rules.CheckError
	if !errors.As(err, &ce) {
		t.Errorf("want *rules.CheckError in chain, got %v", err)
	}
}

func TestEvaluator_UnknownKind_Error(t *testing.T) {
	ev := NewEvaluator(storageRegistry())
	snap := passingSnapshot("strange-resource")
	snap.Resource.Kind = models.ResourceKind("DYNAMO_TABLE")

	if _, err := ev.Evaluate(snap); err == nil {
		t.Error("want error for kind with no registered rules, got nil")
	}
}

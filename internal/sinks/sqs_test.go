package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sqssvc "github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

type fakeSQS struct {
	sendIn  *sqssvc.SendMessageInput
	sendErr error
	attrIn  *sqssvc.GetQueueAttributesInput
	attrErr error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqssvc.SendMessageInput, _ ...func(*sqssvc.Options)) (*sqssvc.SendMessageOutput, error) {
	f.sendIn = params
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &sqssvc.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

func (f *fakeSQS) GetQueueAttributes(_ context.Context, params *sqssvc.GetQueueAttributesInput, _ ...func(*sqssvc.Options)) (*sqssvc.GetQueueAttributesOutput, error) {
	f.attrIn = params
	if f.attrErr != nil {
		return nil, f.attrErr
	}
	return &sqssvc.GetQueueAttributesOutput{}, nil
}

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/111122223333/remediation-playbooks"

func sampleRequest() *models.RemediationRequest {
	return &models.RemediationRequest{
		Action:          "remediate_s3_public_access",
		TargetID:        "arn:aws:s3:::exposed-bucket",
		RemediationPath: "remediation_playbooks/s3_public_access_fix.tf",
		Timestamp:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSQSRemediationSink_Dispatch_MessageBody(t *testing.T) {
	fake := &fakeSQS{}
	sink := NewSQSRemediationSinkWithClient(fake, testQueueURL)

	if err := sink.Dispatch(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.sendIn == nil {
		t.Fatal("SendMessage was not called")
	}
	if aws.ToString(fake.sendIn.QueueUrl) != testQueueURL {
		t.Errorf("queue url: got %q", aws.ToString(fake.sendIn.QueueUrl))
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(aws.ToString(fake.sendIn.MessageBody)), &body); err != nil {
		t.Fatalf("message body is not valid JSON: %v", err)
	}
	if body["action"] != "remediate_s3_public_access" {
		t.Errorf("action: got %q", body["action"])
	}
	if body["target_id"] != "arn:aws:s3:::exposed-bucket" {
		t.Errorf("target_id: got %q", body["target_id"])
	}
	if body["remediation_path"] != "remediation_playbooks/s3_public_access_fix.tf" {
		t.Errorf("remediation_path: got %q", body["remediation_path"])
	}
	if body["timestamp"] != "2025-06-01T12:00:00Z" {
		t.Errorf("timestamp: got %q; want ISO-8601 UTC", body["timestamp"])
	}
}

func TestSQSRemediationSink_Dispatch_Error(t *testing.T) {
	fake := &fakeSQS{sendErr: errors.New("queue does not exist")}
	sink := NewSQSRemediationSinkWithClient(fake, testQueueURL)

	err := sink.Dispatch(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !strings.Contains(err.Error(), "arn:aws:s3:::exposed-bucket") {
		t.Errorf("error should name the target, got %q", err)
	}
}

func TestSQSRemediationSink_Probe(t *testing.T) {
	fake := &fakeSQS{}
	sink := NewSQSRemediationSinkWithClient(fake, testQueueURL)

	if err := sink.Probe(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.attrIn == nil {
		t.Fatal("GetQueueAttributes was not called")
	}
	if aws.ToString(fake.attrIn.QueueUrl) != testQueueURL {
		t.Errorf("queue url: got %q", aws.ToString(fake.attrIn.QueueUrl))
	}
	if len(fake.attrIn.AttributeNames) != 1 || fake.attrIn.AttributeNames[0] != sqstypes.QueueAttributeNameQueueArn {
		t.Errorf("attribute names: got %v; want [QueueArn]", fake.attrIn.AttributeNames)
	}
}

func TestSQSRemediationSink_Probe_Error(t *testing.T) {
	fake := &fakeSQS{attrErr: errors.New("AccessDenied")}
	sink := NewSQSRemediationSinkWithClient(fake, testQueueURL)

	err := sink.Probe(context.Background())
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !strings.Contains(err.Error(), "probe remediation queue") {
		t.Errorf("error should name the operation, got %q", err)
	}
}

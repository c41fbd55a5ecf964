package sinks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sqssvc "github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/vanguard-grc/cce-engine/internal/models"
	"github.com/vanguard-grc/cce-engine/internal/providers/aws/common"
)

// sqsAPI is the narrow slice of the SQS client the sink depends on.
// Tests substitute a local fake.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqssvc.SendMessageInput, optFns ...func(*sqssvc.Options)) (*sqssvc.SendMessageOutput, error)
	GetQueueAttributes(ctx context.Context, params *sqssvc.GetQueueAttributesInput, optFns ...func(*sqssvc.Options)) (*sqssvc.GetQueueAttributesOutput, error)
}

// SQSRemediationSink publishes remediation requests to the playbook
// queue, one JSON message per request. It implements
// engine.RemediationSink.
type SQSRemediationSink struct {
	client   sqsAPI
	queueURL string
}

// NewSQSRemediationSink builds a sink from a loaded profile.
func NewSQSRemediationSink(profile *common.ProfileConfig, queueURL string) *SQSRemediationSink {
	return &SQSRemediationSink{
		client:   sqssvc.NewFromConfig(profile.Config),
		queueURL: queueURL,
	}
}

// NewSQSRemediationSinkWithClient wires a pre-built client.
func NewSQSRemediationSinkWithClient(client sqsAPI, queueURL string) *SQSRemediationSink {
	return &SQSRemediationSink{client: client, queueURL: queueURL}
}

// Dispatch sends one remediation request as the message body.
func (s *SQSRemediationSink) Dispatch(ctx context.Context, req *models.RemediationRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal remediation request: %w", err)
	}

	_, err = s.client.SendMessage(ctx, &sqssvc.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("send remediation message for %s: %w", req.TargetID, err)
	}
	return nil
}

// Probe verifies the queue exists and the caller may read its
// attributes. Used by the doctor command.
func (s *SQSRemediationSink) Probe(ctx context.Context) error {
	_, err := s.client.GetQueueAttributes(ctx, &sqssvc.GetQueueAttributesInput{
		QueueUrl:       aws.String(s.queueURL),
		AttributeNames: []sqstypes.QueueAttributeName{sqstypes.QueueAttributeNameQueueArn},
	})
	if err != nil {
		return fmt.Errorf("probe remediation queue: %w", err)
	}
	return nil
}

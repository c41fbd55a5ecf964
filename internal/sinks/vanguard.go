// Package sinks delivers pipeline outputs to external systems: evidence
// records to the Vanguard GRC agent over HTTPS and remediation requests
// to the downstream playbook queue on SQS. Every sink is safe for
// concurrent use by pipeline workers.
package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// defaultVanguardTimeout bounds each evidence POST when the caller does
// not configure one.
const defaultVanguardTimeout = 10 * time.Second

// VanguardSink posts evidence records to the Vanguard agent API as JSON,
// authenticated with a bearer token. It implements engine.EvidenceSink.
type VanguardSink struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewVanguardSink returns a sink targeting apiURL. A non-positive
// timeout selects the default.
func NewVanguardSink(apiURL, apiKey string, timeout time.Duration) *VanguardSink {
	if timeout <= 0 {
		timeout = defaultVanguardTimeout
	}
	return &VanguardSink{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

// Send delivers one evidence record. Any response outside the 2xx range
// is an error; the caller decides whether a delivery failure affects the
// rest of the run.
func (s *VanguardSink) Send(ctx context.Context, record *models.EvidenceRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal evidence record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build evidence request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post evidence: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Carry a bounded slice of the response so auth and validation
		// failures are diagnosable from the run log.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("vanguard API responded %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

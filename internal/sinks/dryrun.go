package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// LogSink renders evidence records and remediation requests to a writer
// instead of delivering them. It backs the --dry-run flag and satisfies
// both engine.EvidenceSink and engine.RemediationSink.
type LogSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogSink returns a sink writing to w.
func NewLogSink(w io.Writer) *LogSink {
	return &LogSink{w: w}
}

// Send prints the evidence record that would have been posted.
func (s *LogSink) Send(_ context.Context, record *models.EvidenceRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal evidence record: %w", err)
	}
	return s.writeLine("evidence", data)
}

// Dispatch prints the remediation request that would have been queued.
func (s *LogSink) Dispatch(_ context.Context, req *models.RemediationRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal remediation request: %w", err)
	}
	return s.writeLine("remediation", data)
}

// writeLine serialises writer access; pipeline workers share one sink.
func (s *LogSink) writeLine(kind string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "[dry-run] %s: %s\n", kind, data); err != nil {
		return fmt.Errorf("write %s line: %w", kind, err)
	}
	return nil
}

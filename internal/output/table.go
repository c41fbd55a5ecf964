package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// ANSI color codes for status output (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[0;33m"
)

// TableOptions controls how RenderTable renders per-resource outcomes.
type TableOptions struct {
	// Colored wraps FAIL and ERROR status labels with ANSI codes.
	// Default false (CI-safe).
	Colored bool
}

// statusLabel collapses an outcome into one table cell: PASS, FAIL, or
// ERROR for resources that could not be evaluated at all.
func statusLabel(r models.ResourceOutcome) string {
	if r.Error != "" {
		return "ERROR"
	}
	return string(r.Status)
}

// statusCell returns the status padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are
// plain so subsequent columns stay visually aligned regardless of terminal
// ANSI support.
func statusCell(label string, width int, colored bool) string {
	if !colored {
		return fmt.Sprintf("%-*s", width, label)
	}
	var code string
	switch label {
	case "FAIL":
		code = ansiRed
	case "ERROR":
		code = ansiYellow
	default:
		return fmt.Sprintf("%-*s", width, label)
	}
	spaces := width - len(label)
	if spaces < 0 {
		spaces = 0
	}
	return code + label + ansiReset + strings.Repeat(" ", spaces)
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// truncateField shortens s to at most max bytes for ID/label columns.
// A single-char ellipsis replaces the last byte when truncation occurs.
func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// failedChecks joins the IDs of failing findings, "-" when none failed.
func failedChecks(r models.ResourceOutcome) string {
	var ids []string
	for _, f := range r.Findings {
		if f.Status == models.StatusFail {
			ids = append(ids, f.CheckID)
		}
	}
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ",")
}

// detailFor picks the free-text cell for one outcome: the processing
// error when evaluation failed, otherwise the details of the first
// failing check.
func detailFor(r models.ResourceOutcome) string {
	if r.Error != "" {
		return r.Error
	}
	for _, f := range r.Findings {
		if f.Status == models.StatusFail {
			return f.Details
		}
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

// RenderTable writes one formatted row per resource outcome to w.
// The separator line width is derived from the header row so all rows
// align correctly.
//
// Column order:
//
//	BUCKET  STATUS  FAILED CHECKS  EVIDENCE  REMEDIATION  DETAIL
func RenderTable(w io.Writer, results []models.ResourceOutcome, opts TableOptions) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No resources.")
		return
	}

	// Fixed column display widths.
	const (
		wBucket      = 30
		wStatus      = 6
		wChecks      = 40
		wEvidence    = 8
		wRemediation = 11
		wDetail      = 55
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wBucket, "BUCKET"))
	hb.WriteString(fmt.Sprintf("  %-*s", wStatus, "STATUS"))
	hb.WriteString(fmt.Sprintf("  %-*s", wChecks, "FAILED CHECKS"))
	hb.WriteString(fmt.Sprintf("  %-*s", wEvidence, "EVIDENCE"))
	hb.WriteString(fmt.Sprintf("  %-*s", wRemediation, "REMEDIATION"))
	hb.WriteString(fmt.Sprintf("  %-*s", wDetail, "DETAIL"))
	header := hb.String()

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range results {
		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("%-*s", wBucket, truncateField(r.Resource.Name, wBucket)))
		rb.WriteString("  " + statusCell(statusLabel(r), wStatus, opts.Colored))
		rb.WriteString(fmt.Sprintf("  %-*s", wChecks, truncateField(failedChecks(r), wChecks)))
		rb.WriteString(fmt.Sprintf("  %-*s", wEvidence, yesNo(r.EvidenceDelivered)))
		rb.WriteString(fmt.Sprintf("  %-*s", wRemediation, yesNo(r.RemediationRequested)))
		rb.WriteString(fmt.Sprintf("  %-*s", wDetail, ShortenMessage(detailFor(r), wDetail)))
		fmt.Fprintln(w, rb.String())
	}
}

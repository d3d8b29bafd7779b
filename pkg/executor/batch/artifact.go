package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// Job statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// JobResult is the outcome of one job.
type JobResult struct {
	Job
	Status    string        `json:"status"`
	Answer    string        `json:"answer,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// Report summarizes a batch run.
type Report struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []JobResult   `json:"results"`
}

func (r *Report) tally() {
	r.Succeeded, r.Failed = 0, 0
	for _, result := range r.Results {
		if result.Status == StatusSucceeded {
			r.Succeeded++
		} else {
			r.Failed++
		}
	}
}

// Err returns an error when any job failed.
func (r *Report) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d jobs failed", r.Failed, len(r.Results))
}

// ReportWriter writes reports to a directory.
type ReportWriter struct {
	outputDir string
}

// NewReportWriter creates a report writer.
func NewReportWriter(outputDir string) *ReportWriter {
	return &ReportWriter{outputDir: outputDir}
}

// WriteAll writes report.json and report.md.
func (w *ReportWriter) WriteAll(report *Report) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := w.WriteJSON(report); err != nil {
		return err
	}
	return w.WriteMarkdown(report)
}

// WriteJSON writes the full report as JSON.
func (w *ReportWriter) WriteJSON(report *Report) error {
	path := filepath.Join(w.outputDir, "report.json")

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write report JSON: %w", writeErr)
	}
	return nil
}

// WriteMarkdown writes a human-readable summary.
func (w *ReportWriter) WriteMarkdown(report *Report) error {
	path := filepath.Join(w.outputDir, "report.md")

	if writeErr := os.WriteFile(path, []byte(FormatMarkdown(report)), 0600); writeErr != nil {
		return fmt.Errorf("failed to write report markdown: %w", writeErr)
	}
	return nil
}

// FormatMarkdown renders report as Markdown: a summary table, then one
// section per job with its answer or error.
func FormatMarkdown(report *Report) string {
	md := markdown.NewMarkdown(io.Discard)

	md.H1("webscout Batch Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", report.StartTime.Format(time.RFC3339)},
			{"Duration", report.Duration.Round(time.Millisecond).String()},
			{"Succeeded", strconv.Itoa(report.Succeeded)},
			{"Failed", strconv.Itoa(report.Failed)},
		},
	})
	md.PlainText("")

	if report.Failed > 0 {
		md.Warningf("%d of %d jobs failed.", report.Failed, len(report.Results))
		md.PlainText("")
	}

	for _, result := range report.Results {
		md.H2(result.Name)
		md.PlainText("")
		md.BulletList(
			"URL: "+result.URL,
			"Question: "+result.Question,
			"Duration: "+result.Duration.Round(time.Millisecond).String(),
		)
		md.PlainText("")
		if result.Status == StatusSucceeded {
			md.PlainText(result.Answer)
		} else {
			md.PlainText("Error: " + result.Error)
		}
		md.PlainText("")
	}
	return md.String()
}

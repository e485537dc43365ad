package checker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
)

// runLogName is the JSONL file appended once per checklist run.
const runLogName = "init.jsonl"

// RunLog appends checklist reports to a JSONL file, one line per run.
// The filesystem is injected so tests run against memory.
type RunLog struct {
	fs  afero.Fs
	dir string
}

// NewRunLog creates a run log writer rooted at dir. A nil fs means the
// operating system filesystem.
func NewRunLog(fs afero.Fs, dir string) *RunLog {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &RunLog{fs: fs, dir: dir}
}

// Path returns the log file location.
func (l *RunLog) Path() string {
	return filepath.Join(l.dir, runLogName)
}

type runLogEntry struct {
	Timestamp  string        `json:"ts"`
	RunID      string        `json:"run_id"`
	Passed     int           `json:"passed"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	DurationMs int64         `json:"duration_ms"`
	Checks     []runLogCheck `json:"checks"`
}

type runLogCheck struct {
	Check     string `json:"check"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// Append writes one report as a single JSON line, creating the log
// directory on first use. Check names are snake_cased so downstream
// tooling gets stable keys regardless of display wording.
func (l *RunLog) Append(report *Report) error {
	if err := l.fs.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	passed, skipped, failed := report.Counts()
	entry := runLogEntry{
		Timestamp:  report.StartedAt.UTC().Format(time.RFC3339),
		RunID:      report.RunID,
		Passed:     passed,
		Skipped:    skipped,
		Failed:     failed,
		DurationMs: report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	}
	for _, res := range report.Results {
		entry.Checks = append(entry.Checks, runLogCheck{
			Check:     strcase.ToSnake(res.Name),
			Status:    string(res.Status),
			Detail:    res.Detail,
			ElapsedMs: res.Elapsed.Milliseconds(),
		})
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode run log entry: %w", err)
	}
	line = append(line, '\n')

	f, err := l.fs.OpenFile(l.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}
	return nil
}

// Package record appends benchmark results to the shared CSV results
// file used by every language runner.
package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// TaskSort is the task label for sort benchmark rows.
const TaskSort = "sort"

const timestampLayout = "2006-01-02T15:04:05"

// Header returns the fixed column order of the results file.
func Header() []string {
	return []string{
		"timestamp_iso",
		"task",
		"language",
		"language_version",
		"algo",
		"dataset_file",
		"distribution",
		"n",
		"warmup_runs",
		"rep_idx",
		"time_ms",
		"ok",
	}
}

// Row is one measured repetition plus its run metadata. Fields map
// one-to-one onto the results file columns.
type Row struct {
	Timestamp       time.Time
	Task            string
	Language        string
	LanguageVersion string
	Algo            string
	DatasetFile     string
	Distribution    string
	N               int
	WarmupRuns      int
	RepIdx          int
	Elapsed         time.Duration
	OK              bool
}

// Fields renders the row in column order. Durations carry exactly
// three decimal places of milliseconds; booleans are true/false.
func (r Row) Fields() []string {
	ms := float64(r.Elapsed.Nanoseconds()) / 1e6

	return []string{
		r.Timestamp.Format(timestampLayout),
		r.Task,
		r.Language,
		r.LanguageVersion,
		r.Algo,
		r.DatasetFile,
		r.Distribution,
		strconv.Itoa(r.N),
		strconv.Itoa(r.WarmupRuns),
		strconv.Itoa(r.RepIdx),
		fmt.Sprintf("%.3f", ms),
		strconv.FormatBool(r.OK),
	}
}

// Line returns the comma-joined row, the form echoed to stdout
// during a run. Field values are assumed comma-free.
func (r Row) Line() string {
	return strings.Join(r.Fields(), ",")
}

// Recorder appends rows to one results file. The header is written
// only when the file does not yet exist. Two processes racing to
// create the same file can both observe it absent and both write a
// header; runs are expected to be driven sequentially, so this is a
// known limitation rather than something the Recorder guards against.
type Recorder struct {
	path string
}

// New creates a Recorder for the given results file path.
func New(path string) *Recorder {
	return &Recorder{path: path}
}

// Path returns the results file path.
func (r *Recorder) Path() string {
	return r.path
}

// Append writes exactly one row, creating parent directories and the
// file itself (with header) when absent.
func (r *Recorder) Append(row Row) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create results dir %s: %w", dir, err)
		}
	}

	_, statErr := os.Stat(r.path)
	newFile := statErr != nil

	f, err := os.OpenFile(
		r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644,
	)
	if err != nil {
		return fmt.Errorf("open results file %s: %w", r.path, err)
	}

	w := csv.NewWriter(f)

	if newFile {
		if err := w.Write(Header()); err != nil {
			f.Close()

			return fmt.Errorf("write header: %w", err)
		}
	}

	if err := w.Write(row.Fields()); err != nil {
		f.Close()

		return fmt.Errorf("write row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()

		return fmt.Errorf("flush results file %s: %w", r.path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close results file %s: %w", r.path, err)
	}

	return nil
}

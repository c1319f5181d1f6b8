package record

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func testRow(idx int) Row {
	return Row{
		Timestamp:       time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local),
		Task:            TaskSort,
		Language:        "go",
		LanguageVersion: "go1.24.0",
		Algo:            "builtin",
		DatasetFile:     "datasets/ints/random_n100000_seed1.bin",
		Distribution:    "random",
		N:               100000,
		WarmupRuns:      5,
		RepIdx:          idx,
		Elapsed:         12345678 * time.Nanosecond,
		OK:              true,
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read results file: %v", err)
	}

	return strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
}

func TestRowFields(t *testing.T) {
	fields := testRow(3).Fields()

	want := []string{
		"2026-03-14T09:26:53",
		"sort",
		"go",
		"go1.24.0",
		"builtin",
		"datasets/ints/random_n100000_seed1.bin",
		"random",
		"100000",
		"5",
		"3",
		"12.346",
		"true",
	}

	if !slices.Equal(fields, want) {
		t.Errorf("Fields() = %v, want %v", fields, want)
	}
}

func TestRowFieldCount(t *testing.T) {
	if got := len(testRow(0).Fields()); got != len(Header()) {
		t.Errorf("row has %d fields, header has %d", got, len(Header()))
	}
	if got := len(Header()); got != 12 {
		t.Errorf("header has %d columns, want 12", got)
	}
}

func TestRowTimeFormatting(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "0.000"},
		{1 * time.Microsecond, "0.001"},
		{999999 * time.Nanosecond, "1.000"},
		{1 * time.Millisecond, "1.000"},
		{1234567891 * time.Nanosecond, "1234.568"},
	}

	for _, tt := range tests {
		row := testRow(0)
		row.Elapsed = tt.elapsed

		if got := row.Fields()[10]; got != tt.want {
			t.Errorf("time_ms for %v = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
}

func TestRowBooleans(t *testing.T) {
	row := testRow(0)

	if got := row.Fields()[11]; got != "true" {
		t.Errorf("ok = %q, want true", got)
	}

	row.OK = false
	if got := row.Fields()[11]; got != "false" {
		t.Errorf("ok = %q, want false", got)
	}
}

func TestRowLine(t *testing.T) {
	line := testRow(0).Line()

	if parts := strings.Split(line, ","); len(parts) != 12 {
		t.Errorf("line has %d comma-separated fields, want 12: %q",
			len(parts), line)
	}
}

func TestAppendCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "raw.csv")
	rec := New(path)

	if err := rec.Append(testRow(0)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}

	if lines[0] != strings.Join(Header(), ",") {
		t.Errorf("header = %q, want %q", lines[0], strings.Join(Header(), ","))
	}
	if lines[1] != testRow(0).Line() {
		t.Errorf("row = %q, want %q", lines[1], testRow(0).Line())
	}
}

func TestAppendHeaderOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")

	// Separate Recorders model separate invocations sharing one file.
	for i := 0; i < 3; i++ {
		if err := New(path).Append(testRow(i)); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	lines := readLines(t, path)
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows", len(lines))
	}

	header := strings.Join(Header(), ",")
	for i, line := range lines[1:] {
		if line == header {
			t.Errorf("duplicate header at row %d", i)
		}
	}
}

func TestAppendRowCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	rec := New(path)

	const reps = 7
	for i := 0; i < reps; i++ {
		if err := rec.Append(testRow(i)); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open results file: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse results file: %v", err)
	}

	if len(records) != reps+1 {
		t.Fatalf("got %d records, want %d rows + header", len(records), reps)
	}

	for i, rec := range records[1:] {
		if len(rec) != 12 {
			t.Errorf("row %d has %d fields, want 12", i, len(rec))
		}
		if rec[9] != strings.TrimSpace(rec[9]) {
			t.Errorf("row %d rep_idx has whitespace: %q", i, rec[9])
		}
	}
}

// Package dataset reads, writes, and generates the binary integer
// datasets consumed by the sort benchmark runners. The on-disk layout
// is a 4-byte little-endian unsigned count followed by exactly that
// many little-endian signed 32-bit values; nothing else.
package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const headerSize = 4

// ReadFile loads a dataset from path. The file size must equal
// 4 + 4n bytes for the declared count n; anything else is an error.
func ReadFile(path string) ([]int32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	if len(raw) < headerSize {
		return nil, fmt.Errorf(
			"dataset %s: missing header (%d bytes, need at least %d)",
			path, len(raw), headerSize,
		)
	}

	n := binary.LittleEndian.Uint32(raw[:headerSize])

	want := headerSize + 4*int64(n)
	if int64(len(raw)) != want {
		return nil, fmt.Errorf(
			"dataset %s: size mismatch for n=%d: expected %d bytes, got %d",
			path, n, want, len(raw),
		)
	}

	values := make([]int32, n)
	for i := range values {
		off := headerSize + 4*i
		values[i] = int32(binary.LittleEndian.Uint32(raw[off : off+4]))
	}

	return values, nil
}

// Write emits values to w in the dataset layout.
func Write(w io.Writer, values []int32) error {
	buf := make([]byte, headerSize+4*len(values))
	binary.LittleEndian.PutUint32(buf[:headerSize], uint32(len(values)))

	for i, v := range values {
		off := headerSize + 4*i
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(v))
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	return nil
}

// WriteFile writes values as a dataset file at path, creating parent
// directories as needed.
func WriteFile(path string, values []int32) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}

	if err := Write(f, values); err != nil {
		f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close dataset %s: %w", path, err)
	}

	return nil
}

// InferDistribution extracts the distribution label from a dataset
// path. Filenames follow <distribution>_n<count>_seed<seed>.bin;
// a name without the _n marker yields "unknown".
func InferDistribution(path string) string {
	base := filepath.Base(path)

	idx := strings.Index(base, "_n")
	if idx < 0 {
		return "unknown"
	}

	return base[:idx]
}

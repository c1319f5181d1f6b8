// Package bench executes the measurement protocol shared by every
// language runner: warm-up repetitions followed by timed repetitions,
// each sorting a fresh copy of the loaded dataset with the runtime's
// builtin sort.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/weiihann/sortbench/dataset"
)

// AlgoBuiltin names the runtime's standard general-purpose sort,
// currently the only supported algorithm.
const AlgoBuiltin = "builtin"

// Algorithms returns the closed set of accepted algorithm names.
func Algorithms() []string {
	return []string{AlgoBuiltin}
}

// Config holds parameters for a single benchmark run. It is built
// once from CLI flags and never modified afterwards.
type Config struct {
	DatasetPath string
	Algo        string
	Warmup      int
	Reps        int
	OutPath     string
	Validate    bool
}

// Check validates the configuration. It is called before any dataset
// I/O so bad configurations fail without touching the filesystem.
func (c Config) Check() error {
	if c.DatasetPath == "" {
		return fmt.Errorf("dataset path is required")
	}

	if c.Warmup < 0 {
		return fmt.Errorf("warmup must be >= 0, got %d", c.Warmup)
	}

	if c.Reps <= 0 {
		return fmt.Errorf("reps must be > 0, got %d", c.Reps)
	}

	if !slices.Contains(Algorithms(), c.Algo) {
		return fmt.Errorf(
			"unsupported algorithm %q (supported: %v)",
			c.Algo, Algorithms(),
		)
	}

	return nil
}

// Repetition describes one measured trial: its zero-based index, the
// wall-clock duration of the sort call, and the sortedness outcome.
type Repetition struct {
	Index   int
	Elapsed time.Duration
	Sorted  bool
}

// Runner executes the warm-up and measured phases over one dataset.
// The dataset slice is owned by the Runner and must not be mutated
// by the caller for the Runner's lifetime.
type Runner struct {
	cfg         Config
	values      []int32
	fingerprint uint64
	logger      *slog.Logger
}

// NewRunner creates a Runner for a validated Config and a loaded
// dataset.
func NewRunner(cfg Config, values []int32, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:         cfg,
		values:      values,
		fingerprint: dataset.Fingerprint(values),
		logger:      logger.With(slog.String("algo", cfg.Algo)),
	}
}

// Run executes cfg.Warmup untimed repetitions followed by cfg.Reps
// timed ones, sequentially on the calling goroutine. Every repetition
// sorts an independent copy of the original dataset; the original's
// fingerprint is re-verified before each measured repetition so a
// mutated master copy aborts the run instead of skewing results.
// emit is called once per measured repetition, in index order.
func (r *Runner) Run(ctx context.Context, emit func(Repetition) error) error {
	r.logger.InfoContext(ctx, "starting run",
		slog.Int("n", len(r.values)),
		slog.Int("warmup", r.cfg.Warmup),
		slog.Int("reps", r.cfg.Reps),
		slog.String("fingerprint", fmt.Sprintf("%016x", r.fingerprint)),
	)

	for i := 0; i < r.cfg.Warmup; i++ {
		work := slices.Clone(r.values)
		slices.Sort(work)
	}

	for rep := 0; rep < r.cfg.Reps; rep++ {
		if fp := dataset.Fingerprint(r.values); fp != r.fingerprint {
			return fmt.Errorf(
				"dataset mutated before repetition %d: "+
					"fingerprint %016x, expected %016x",
				rep, fp, r.fingerprint,
			)
		}

		work := slices.Clone(r.values)

		start := time.Now()
		slices.Sort(work)
		elapsed := time.Since(start)

		ok := true
		if r.cfg.Validate {
			ok = Sorted(work)
		}

		if err := emit(Repetition{
			Index:   rep,
			Elapsed: elapsed,
			Sorted:  ok,
		}); err != nil {
			return fmt.Errorf("record repetition %d: %w", rep, err)
		}
	}

	r.logger.InfoContext(ctx, "run finished",
		slog.Int("reps", r.cfg.Reps),
	)

	return nil
}

// Package main provides the CLI entry point for sortbench, the Go
// runner of the cross-language sort benchmark suite.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/weiihann/sortbench/bench"
	"github.com/weiihann/sortbench/dataset"
	"github.com/weiihann/sortbench/record"
)

// Exit statuses shared with the other language runners: 2 for
// configuration errors, 1 for dataset or output errors.
const (
	exitRuntimeError = 1
	exitUsageError   = 2
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sortbench:", err)

		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(os.Stderr, root.UsageString())
			os.Exit(exitUsageError)
		}

		os.Exit(exitRuntimeError)
	}
}

// usageError marks configuration mistakes so main can exit with the
// reserved status 2 instead of the generic 1.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var (
		datasetPath string
		algo        string
		warmup      int
		reps        int
		outPath     string
		noValidate  bool
	)

	root := &cobra.Command{
		Use:   "sortbench",
		Short: "Go runner for the cross-language sort benchmark",
		Long: `Sortbench times the runtime's builtin sort over a binary integer
dataset and appends one CSV row per measured repetition to a results
file shared by every language runner. Each repetition sorts a fresh
copy of the dataset, so every measurement starts from the original
distribution.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := bench.Config{
				DatasetPath: datasetPath,
				Algo:        algo,
				Warmup:      warmup,
				Reps:        reps,
				OutPath:     outPath,
				Validate:    !noValidate,
			}

			if err := cfg.Check(); err != nil {
				return &usageError{err}
			}

			return runBench(cmd.Context(), logger, cmd.OutOrStdout(), cfg)
		},
	}

	flags := root.Flags()
	flags.StringVar(&datasetPath, "dataset", "",
		"Path to the .bin dataset (required)")
	flags.StringVar(&algo, "algo", bench.AlgoBuiltin,
		"Sorting algorithm (only builtin)")
	flags.IntVar(&warmup, "warmup", 5,
		"Untimed warm-up repetitions before measurement")
	flags.IntVar(&reps, "reps", 30,
		"Timed, recorded repetitions")
	flags.StringVar(&outPath, "out", "results/raw.csv",
		"Results CSV file to append to")
	flags.BoolVar(&noValidate, "no-validate", false,
		"Skip the sortedness check (ok is recorded as true)")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	root.AddCommand(newGenCmd(logger))

	return root
}

func runBench(
	ctx context.Context,
	logger *slog.Logger,
	echo io.Writer,
	cfg bench.Config,
) error {
	values, err := dataset.ReadFile(cfg.DatasetPath)
	if err != nil {
		return err
	}

	runner := bench.NewRunner(cfg, values, logger)
	rec := record.New(cfg.OutPath)
	dist := dataset.InferDistribution(cfg.DatasetPath)

	return runner.Run(ctx, func(rep bench.Repetition) error {
		row := record.Row{
			Timestamp:       time.Now(),
			Task:            record.TaskSort,
			Language:        "go",
			LanguageVersion: runtime.Version(),
			Algo:            cfg.Algo,
			DatasetFile:     cfg.DatasetPath,
			Distribution:    dist,
			N:               len(values),
			WarmupRuns:      cfg.Warmup,
			RepIdx:          rep.Index,
			Elapsed:         rep.Elapsed,
			OK:              rep.Sorted,
		}

		fmt.Fprintln(echo, row.Line())

		return rec.Append(row)
	})
}

func newGenCmd(logger *slog.Logger) *cobra.Command {
	var (
		outDir  string
		metaDir string
		sizes   []int
		seeds   []int64
		dists   []string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate benchmark datasets",
		Long: `Generate deterministic integer datasets for every requested
combination of distribution, size, and seed, and write a datasets.csv
manifest next to them. Existing files are kept unless --force is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(dists) == 0 {
				return &usageError{fmt.Errorf("no distributions requested")}
			}

			for _, d := range dists {
				if !slices.Contains(dataset.Distributions(), d) {
					return &usageError{fmt.Errorf(
						"unknown distribution %q (supported: %v)",
						d, dataset.Distributions(),
					)}
				}
			}

			for _, n := range sizes {
				if n < 0 {
					return &usageError{fmt.Errorf("invalid size %d", n)}
				}
			}

			return runGen(cmd.Context(), logger, genConfig{
				outDir:  outDir,
				metaDir: metaDir,
				sizes:   sizes,
				seeds:   seeds,
				dists:   dists,
				force:   force,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&outDir, "outdir", "datasets/ints",
		"Output directory for .bin datasets")
	flags.StringVar(&metaDir, "meta-dir", "datasets/meta",
		"Directory for the datasets.csv manifest")
	flags.IntSliceVar(&sizes, "sizes", []int{1000, 10000, 100000, 1000000},
		"Dataset sizes to generate")
	flags.Int64SliceVar(&seeds, "seeds", []int64{1},
		"Generation seeds")
	flags.StringSliceVar(&dists, "dists", dataset.Distributions(),
		"Distributions to generate")
	flags.BoolVar(&force, "force", false,
		"Overwrite existing dataset files")

	return cmd
}

type genConfig struct {
	outDir  string
	metaDir string
	sizes   []int
	seeds   []int64
	dists   []string
	force   bool
}

func runGen(ctx context.Context, logger *slog.Logger, cfg genConfig) error {
	manifest := make([][]string, 0, len(cfg.dists)*len(cfg.sizes)*len(cfg.seeds))

	for _, dist := range cfg.dists {
		for _, n := range cfg.sizes {
			for _, seed := range cfg.seeds {
				spec := dataset.Spec{
					Distribution: dist,
					N:            n,
					Seed:         seed,
				}

				path := filepath.Join(cfg.outDir, spec.Filename())
				manifest = append(manifest, []string{
					dist,
					strconv.Itoa(n),
					strconv.FormatInt(seed, 10),
					path,
				})

				if _, err := os.Stat(path); err == nil && !cfg.force {
					logger.InfoContext(ctx, "dataset exists, skipping",
						slog.String("path", path),
					)

					continue
				}

				values, err := dataset.NewGenerator(spec).Generate()
				if err != nil {
					return fmt.Errorf("generate %s: %w", spec.Filename(), err)
				}

				if err := dataset.WriteFile(path, values); err != nil {
					return err
				}

				logger.InfoContext(ctx, "dataset written",
					slog.String("path", path),
					slog.Int("n", n),
					slog.String("fingerprint",
						fmt.Sprintf("%016x", dataset.Fingerprint(values))),
				)
			}
		}
	}

	if err := writeManifest(cfg.metaDir, manifest); err != nil {
		return err
	}

	logger.InfoContext(ctx, "generation complete",
		slog.Int("datasets", len(manifest)),
	)

	return nil
}

func writeManifest(metaDir string, rows [][]string) error {
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("create meta dir %s: %w", metaDir, err)
	}

	path := filepath.Join(metaDir, "datasets.csv")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest %s: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{"distribution", "n", "seed", "path"}); err != nil {
		f.Close()

		return fmt.Errorf("write manifest header: %w", err)
	}

	if err := w.WriteAll(rows); err != nil {
		f.Close()

		return fmt.Errorf("write manifest rows: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close manifest %s: %w", path, err)
	}

	return nil
}

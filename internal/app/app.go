// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"repeattools/internal/appcore"
	"repeattools/internal/cli"
	"repeattools/internal/cmdutil"
	"repeattools/internal/config"
	"repeattools/internal/logging"
	"repeattools/internal/version"
	"repeattools/internal/writers"
)

const name = "recollector"

// exitCode is returned by a command that has already reported its failure.
type exitCode int

func (c exitCode) Error() string { return fmt.Sprintf("exit status %d", int(c)) }

func done(code int) error {
	if code == 0 {
		return nil
	}
	return exitCode(code)
}

func newRootCmd(argv []string, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   name,
		Short: "Merge RepeatMasker and TEsorter annotations and summarise repeats across species",
		Long: `recollector joins RepeatMasker .out annotations with TEsorter .cls.tsv
classifications, filters the merged repeats, and summarises them per species
as a category count matrix and per-category divergence tables.

Each species lives in its own sub-directory of the input directory holding
one *.out and one *.cls.tsv file (optionally gzipped).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(
		newCollectCmd(argv, stderr),
		newMergeCmd(stdout, stderr),
		newVersionCmd(stdout, stderr),
	)
	return root
}

func newCollectCmd(argv []string, stderr io.Writer) *cobra.Command {
	var opts *cli.CollectOptions
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Process every species directory and write the count matrix and divergence files",
		Example: `  recollector collect -i genomes/ -n names.tsv -o results/
  recollector collect -i genomes/ -n names.tsv --depth clade -p -t div=15 -m lower_than
  recollector collect --config run.yaml --db results/repeats.sqlite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.Resolve(cmd.Flags())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
				fmt.Fprintln(stderr, err)
				return exitCode(3)
			}
			id, err := uuid.NewUUID()
			if err != nil {
				fmt.Fprintln(stderr, err)
				return exitCode(3)
			}
			runID := id.String()
			log, closeLog, err := logging.New(logging.Options{
				Console: stderr,
				File:    filepath.Join(cfg.Output, logging.RunLogName(runID)),
				Verbose: cfg.Logging.Verbose,
				Quiet:   cfg.Logging.Quiet,
			})
			if err != nil {
				fmt.Fprintln(stderr, err)
				return exitCode(3)
			}
			defer func() { _ = closeLog() }()

			log.Info("run started",
				zap.String("run_id", runID),
				zap.String("version", version.Version),
				zap.String("command", strings.Join(append([]string{name}, argv...), " ")))
			return done(collect(cmd.Context(), cfg, runID, log))
		},
	}
	cmd.Flags().SortFlags = false
	opts = cli.BindCollect(cmd.Flags())
	return cmd
}

func collect(ctx context.Context, cfg *config.Config, runID string, log *zap.Logger) int {
	sum, err := appcore.RunBatch(ctx, appcore.BatchOptions{Config: cfg, RunID: runID, Log: log})
	if err != nil {
		var se *appcore.SetupError
		switch {
		case errors.Is(err, context.Canceled):
			log.Warn("run cancelled")
			return 130
		case errors.As(err, &se):
			log.Error("setup failed", zap.Error(err))
			return 2
		}
		log.Error("run failed", zap.Error(err))
		return 3
	}
	if !sum.OK() {
		for _, f := range sum.Failed {
			log.Warn("species not processed", zap.String("dir", f.Dir), zap.String("species", f.Species), zap.String("reason", f.Reason))
		}
		log.Warn("run finished with failures",
			zap.Int("processed", len(sum.Processed)), zap.Int("failed", len(sum.Failed)),
			zap.String("count_matrix", sum.CountMatrix))
		return 3
	}
	log.Info("run finished",
		zap.Int("processed", len(sum.Processed)),
		zap.String("count_matrix", sum.CountMatrix),
		zap.Int("divergence_files", len(sum.DivergenceFiles)))
	return 0
}

func newMergeCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts *cli.MergeOptions
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge one RepeatMasker file with one TEsorter file and print the records",
		Example: `  recollector merge --masker genome.fa.out --classifier genome.fa.cls.tsv
  recollector merge --masker genome.fa.out.gz --classifier genome.fa.cls.tsv -f jsonl --sort`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			log, closeLog, err := logging.New(logging.Options{Console: stderr, Verbose: opts.Verbose, Quiet: opts.Quiet})
			if err != nil {
				fmt.Fprintln(stderr, err)
				return exitCode(3)
			}
			defer func() { _ = closeLog() }()

			code := appcore.RunMerge(cmd.Context(), stdout, stderr,
				appcore.MergeOptions{MaskerPath: opts.Masker, ClassifierPath: opts.Classifier},
				log, cmdutil.PassThrough,
				appcore.NewRecordWriterFactory(opts.Format, opts.Sort, opts.Header()))
			return done(code)
		},
	}
	cmd.Flags().SortFlags = false
	opts = cli.BindMerge(cmd.Flags())
	return cmd
}

func newVersionCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			outw := bufio.NewWriter(stdout)
			_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return nil
			} else if e != nil {
				fmt.Fprintln(stderr, e)
				return exitCode(3)
			}
			return nil
		},
	}
}

// RunContext executes argv and returns the process exit code: 0 ok,
// 2 usage or setup error, 3 runtime error or failed species, 130 cancelled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	root := newRootCmd(argv, stdout, stderr)
	root.SetArgs(argv)
	err := root.ExecuteContext(parent)
	if err == nil {
		return 0
	}
	var ec exitCode
	if errors.As(err, &ec) {
		return int(ec)
	}
	_, _ = fmt.Fprintf(stderr, "error: %v\nRun '%s --help' for usage.\n", err, name)
	return 2
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

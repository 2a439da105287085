package appcore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"repeattools/internal/aggregate"
	"repeattools/internal/config"
	"repeattools/internal/filter"
	"repeattools/internal/jsonutil"
	"repeattools/internal/pipeline"
	"repeattools/internal/species"
	"repeattools/internal/store"
	"repeattools/internal/writers"
)

// SetupError marks failures that happen before any species is processed:
// invalid configuration or unreadable side inputs.
type SetupError struct{ Err error }

func (e *SetupError) Error() string { return e.Err.Error() }
func (e *SetupError) Unwrap() error { return e.Err }

// ErrSpeciesFailed is returned by RunBatch with FailFast set.
var ErrSpeciesFailed = errors.New("species failed")

// BatchOptions configures a collect run.
type BatchOptions struct {
	Config *config.Config
	RunID  string
	Log    *zap.Logger
}

// Side-file names written next to the count matrix.
func SummaryName(runID string) string { return fmt.Sprintf("RECollector.%s.summary.json", runID) }
func ConfigName(runID string) string { return fmt.Sprintf("RECollector.%s.yaml", runID) }

type inputs struct {
	names *species.Names
	pcfg  pipeline.Config
}

func loadInputs(cfg *config.Config, log *zap.Logger) (inputs, error) {
	var in inputs
	if err := cfg.Validate(); err != nil {
		return in, err
	}
	cat, _ := cfg.Categorizer()
	pc, _ := cfg.PercentCriteria()

	names, err := species.ReadFile(cfg.Names, species.ReadNames)
	if err != nil {
		return in, fmt.Errorf("names file: %w", err)
	}
	in.names = names
	in.pcfg = pipeline.Config{
		Filter: filter.Options{
			MinLength:          cfg.Length,
			ExcludeChromosomes: cfg.Chromosomes.Exclude,
			Percentage:         pc,
		},
		Categorizer: cat,
	}
	if cfg.Chromosomes.File != "" {
		chroms, err := species.ReadFile(cfg.Chromosomes.File, species.ReadChromosomes)
		if err != nil {
			return in, fmt.Errorf("chromosome file: %w", err)
		}
		in.pcfg.Chromosomes = chroms
	}
	if cfg.Domains.Enabled {
		// without a file only unclassified repeats are dropped
		dc := filter.DomainCriteria{}
		if cfg.Domains.File != "" {
			if dc, err = species.ReadFile(cfg.Domains.File, species.ReadDomains); err != nil {
				return in, fmt.Errorf("domains file: %w", err)
			}
		}
		in.pcfg.Filter.Domain = &dc
	}

	log.Info("inputs",
		zap.String("input", cfg.Input),
		zap.String("output", cfg.Output),
		zap.String("names", cfg.Names),
		zap.Int("species", names.Len()))
	log.Info("conditions",
		zap.String("depth", string(cat.Field)),
		zap.Bool("override", cat.Override),
		zap.Int("min_length", cfg.Length),
		zap.String("chromosome_file", cfg.Chromosomes.File),
		zap.Bool("exclude_chromosomes", cfg.Chromosomes.Exclude),
		zap.Bool("domain_filter", cfg.Domains.Enabled),
		zap.String("domains_file", cfg.Domains.File),
		zap.Bool("percentage_filter", pc != nil),
		zap.String("threshold", cfg.Percentage.Threshold),
		zap.String("mode", cfg.Percentage.Mode),
		zap.Bool("exclude_non_te", cfg.ExcludeNonTE))
	return in, nil
}

// RunBatch processes every accepted species directory and writes the run
// outputs. Species failures are recorded in the summary; with FailFast the
// first one aborts the run instead.
func RunBatch(ctx context.Context, o BatchOptions) (*Summary, error) {
	cfg, log := o.Config, o.Log
	if log == nil {
		log = zap.NewNop()
	}
	in, err := loadInputs(cfg, log)
	if err != nil {
		return nil, &SetupError{Err: err}
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return nil, &SetupError{Err: err}
	}

	plan, err := species.Discover(cfg.Input, in.names)
	if err != nil {
		return nil, &SetupError{Err: fmt.Errorf("input directory: %w", err)}
	}
	sum := &Summary{RunID: o.RunID, Depth: string(in.pcfg.Categorizer.Field)}
	for _, d := range plan.Ignored {
		log.Info("ignored directory (not in names file)", zap.String("dir", d))
		sum.Ignored = append(sum.Ignored, d)
	}
	for _, f := range plan.Failed {
		log.Error("directory failed", zap.String("dir", f.Dir), zap.String("species", f.Species), zap.Error(f.Err))
		sum.fail(f.Dir, f.Species, f.Err)
		if cfg.FailFast {
			return sum, fmt.Errorf("%w: %s: %w", ErrSpeciesFailed, f.Dir, f.Err)
		}
	}
	log.Info("directories",
		zap.Int("accepted", len(plan.Accepted)),
		zap.Int("ignored", len(plan.Ignored)),
		zap.Int("failed", len(plan.Failed)))

	sink, err := writers.NewDivergenceSink(cfg.Output, sum.Depth)
	if err != nil {
		return sum, err
	}
	var db *store.Store
	if cfg.Database != "" {
		if db, err = store.Open(cfg.Database); err != nil {
			return sum, err
		}
		defer func() { _ = db.Close() }()
		sum.Database = db.Path()
	}

	var counts []aggregate.Counts
	for i, job := range plan.Accepted {
		log.Info("processing", zap.String("species", job.Species),
			zap.Int("n", i+1), zap.Int("of", len(plan.Accepted)))
		res, err := pipeline.Process(ctx, in.pcfg, pipeline.Input{
			Species:        job.Species,
			MaskerPath:     job.MaskerPath,
			ClassifierPath: job.ClassifierPath,
		}, log)
		if err == nil {
			err = persist(ctx, db, o.RunID, sum.Depth, sink, res)
		}
		if err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			log.Error("species failed", zap.String("species", job.Species), zap.Error(err))
			sum.fail(filepath.Base(job.Dir), job.Species, err)
			if cfg.FailFast {
				return sum, fmt.Errorf("%w: %s: %w", ErrSpeciesFailed, job.Species, err)
			}
			continue
		}
		counts = append(counts, res.Counts)
		sum.Processed = append(sum.Processed, SpeciesResult{
			Dir:        filepath.Base(job.Dir),
			Species:    job.Species,
			Records:    res.Parsed,
			Kept:       len(res.Records),
			Matched:    res.Merge.Matched,
			Unmatched:  res.Merge.Unmatched,
			Duplicates: len(res.Merge.Duplicates),
		})
		log.Info("processed", zap.String("species", job.Species),
			zap.Int("records", res.Parsed), zap.Int("kept", len(res.Records)))
	}

	m := aggregate.BuildMatrix(sum.Depth, counts)
	if cfg.ExcludeNonTE {
		m.Drop(aggregate.NonTECategories...)
	}
	sum.CountMatrix = filepath.Join(cfg.Output, writers.CountMatrixName(cfg.Output, o.RunID))
	if err := writers.WriteCountMatrixFile(sum.CountMatrix, m); err != nil {
		return sum, err
	}
	sum.DivergenceFiles = sink.Files()
	log.Info("count matrix written", zap.String("path", sum.CountMatrix),
		zap.Int("species", len(m.Species)), zap.Int("categories", len(m.Categories)))

	if err := cfg.Save(filepath.Join(cfg.Output, ConfigName(o.RunID))); err != nil {
		return sum, err
	}
	if err := jsonutil.WriteFile(filepath.Join(cfg.Output, SummaryName(o.RunID)), sum); err != nil {
		return sum, err
	}
	return sum, nil
}

func persist(ctx context.Context, db *store.Store, runID, depth string, sink *writers.DivergenceSink, res *pipeline.Result) error {
	if err := sink.Append(res.Divergence); err != nil {
		return fmt.Errorf("divergence output: %w", err)
	}
	if db == nil {
		return nil
	}
	if err := db.SaveSpecies(ctx, runID, depth, res.Records, res.Counts); err != nil {
		if uerr := sink.Undo(); uerr != nil {
			return fmt.Errorf("database: %w (divergence revert: %v)", err, uerr)
		}
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

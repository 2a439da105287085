package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"repeattools/internal/aggregate"
	"repeattools/internal/filter"
	"repeattools/internal/merge"
	"repeattools/internal/repeat"
	"repeattools/internal/rmout"
	"repeattools/internal/tesorter"
)

// Config controls per-species processing.
type Config struct {
	Filter filter.Options // Chromosomes is ignored; see below

	// Chromosomes enables the chromosome filter when non-nil. A species
	// without an entry gets an empty set.
	Chromosomes map[string]filter.Set

	Categorizer repeat.Categorizer
}

// Input names one species and its two annotation files.
type Input struct {
	Species        string
	MaskerPath     string
	ClassifierPath string
}

// Result holds one species' contributions.
type Result struct {
	Species     string
	Parsed      int // RepeatMasker records before filtering
	Annotations int // TEsorter rows
	Merge       merge.Stats
	Records     []repeat.Record // filtered
	Counts      aggregate.Counts
	Divergence  []aggregate.DivergenceRow
}

// Loaded is the output of LoadMerged.
type Loaded struct {
	Records     []repeat.Record
	Annotations int
	Stats       merge.Stats
}

// LoadMerged parses the two files concurrently and merges them.
func LoadMerged(ctx context.Context, maskerPath, classifierPath string) (Loaded, error) {
	var (
		recs []repeat.Record
		anns []repeat.Annotation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = rmout.ParseFile(maskerPath)
		if err != nil {
			return err
		}
		return gctx.Err()
	})
	g.Go(func() error {
		var err error
		anns, err = tesorter.ParseFile(classifierPath)
		if err != nil {
			return err
		}
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Loaded{}, err
	}
	merged, st := merge.Merge(recs, anns)
	return Loaded{Records: merged, Annotations: len(anns), Stats: st}, nil
}

// Process runs parse, merge, filter and aggregation for one species.
func Process(ctx context.Context, cfg Config, in Input, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("species", in.Species))

	ld, err := LoadMerged(ctx, in.MaskerPath, in.ClassifierPath)
	if err != nil {
		return nil, err
	}
	parsed := len(ld.Records)
	log.Debug("merged",
		zap.Int("records", parsed),
		zap.Int("annotations", ld.Annotations),
		zap.Int("matched", ld.Stats.Matched),
		zap.Int("unmatched", ld.Stats.Unmatched))
	for _, k := range ld.Stats.Duplicates {
		log.Warn("duplicate classifier row ignored",
			zap.String("repeat", k.Name), zap.Int("start", k.Start), zap.Int("end", k.End))
	}

	fo := cfg.Filter
	fo.Chromosomes = nil
	if cfg.Chromosomes != nil {
		fo.Chromosomes = cfg.Chromosomes[in.Species]
		if fo.Chromosomes == nil {
			fo.Chromosomes = filter.NewSet()
		}
	}
	recs, err := filter.Apply(ld.Records, fo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Species, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Debug("filtered", zap.Int("kept", len(recs)), zap.Int("dropped", parsed-len(recs)))

	return &Result{
		Species:     in.Species,
		Parsed:      parsed,
		Annotations: ld.Annotations,
		Merge:       ld.Stats,
		Records:     recs,
		Counts:      aggregate.CountByCategory(recs, in.Species, cfg.Categorizer),
		Divergence:  aggregate.LongDivergence(recs, in.Species, cfg.Categorizer),
	}, nil
}

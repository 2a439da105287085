package cmdutil

import (
	"context"

	"repeattools/internal/merge"
	"repeattools/internal/pipeline"
	"repeattools/internal/repeat"
)

// RunStream loads and merges one species' files, applies a visitor, and
// streams the kept records via send. It returns the number of records sent,
// the merge statistics and the first error encountered.
func RunStream(
	ctx context.Context,
	in pipeline.Input,
	visit func(repeat.Record) (bool, repeat.Record, error),
	send func(repeat.Record) error,
) (int, merge.Stats, error) {
	ld, err := pipeline.LoadMerged(ctx, in.MaskerPath, in.ClassifierPath)
	if err != nil {
		return 0, merge.Stats{}, err
	}
	total := 0
	for _, r := range ld.Records {
		if err := ctx.Err(); err != nil {
			return total, ld.Stats, err
		}
		keep, out, vErr := visit(r)
		if vErr != nil {
			return total, ld.Stats, vErr
		}
		if !keep {
			continue
		}
		if err := send(out); err != nil {
			return total, ld.Stats, err
		}
		total++
	}
	return total, ld.Stats, nil
}

// PassThrough keeps every record unchanged.
func PassThrough(r repeat.Record) (bool, repeat.Record, error) { return true, r, nil }

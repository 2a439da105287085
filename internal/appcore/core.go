// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"repeattools/internal/cmdutil"
	"repeattools/internal/pipeline"
	"repeattools/internal/repeat"
	"repeattools/internal/writers"
)

// MergeOptions configures the merge command.
type MergeOptions struct {
	MaskerPath     string
	ClassifierPath string
}

type VisitorFunc func(repeat.Record) (keep bool, out repeat.Record, err error)

type WriterFactory interface {
	Start(out io.Writer, bufSize int) (chan<- repeat.Record, <-chan error)
}

// RunMerge parses, merges and writes one pair of files. It returns the
// process exit code.
func RunMerge(
	parent context.Context,
	stdout, stderr io.Writer,
	o MergeOptions,
	log *zap.Logger,
	visit VisitorFunc,
	wf WriterFactory,
) int {
	if log == nil {
		log = zap.NewNop()
	}
	outw := bufio.NewWriter(stdout)

	inCh, writeErr := wf.Start(outw, 256)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	total, st, perr := cmdutil.RunStream(
		ctx,
		pipeline.Input{MaskerPath: o.MaskerPath, ClassifierPath: o.ClassifierPath},
		visit,
		func(r repeat.Record) error {
			select {
			case inCh <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return 3
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, perr)
		return 3
	}
	for _, k := range st.Duplicates {
		log.Warn("duplicate classifier row ignored",
			zap.String("repeat", k.Name), zap.Int("start", k.Start), zap.Int("end", k.End))
	}
	log.Info("merged",
		zap.Int("records", total), zap.Int("matched", st.Matched), zap.Int("unmatched", st.Unmatched))
	return 0
}

// Package logging builds the zap logger shared by the command layer: a
// human console on stderr and an optional JSON run log on disk.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Console io.Writer // nil discards console output
	File    string    // run log path; "" disables it
	Verbose bool
	Quiet   bool
}

// RunLogName is the run log file name for runID.
func RunLogName(runID string) string { return fmt.Sprintf("RECollector.%s.log", runID) }

func consoleLevel(o Options) zapcore.Level {
	switch {
	case o.Verbose:
		return zapcore.DebugLevel
	case o.Quiet:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// New returns the logger and a closer that flushes and closes the run log.
func New(o Options) (*zap.Logger, func() error, error) {
	var cores []zapcore.Core

	if o.Console != nil {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.TimeKey = ""
		enc.CallerKey = ""
		enc.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.AddSync(o.Console),
			zap.NewAtomicLevelAt(consoleLevel(o)),
		))
	}

	var fh *os.File
	if o.File != "" {
		var err error
		fh, err = os.Create(o.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create run log: %w", err)
		}
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(enc),
			zapcore.Lock(fh),
			zap.NewAtomicLevelAt(zapcore.DebugLevel),
		))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	closer := func() error {
		_ = logger.Sync()
		if fh != nil {
			return fh.Close()
		}
		return nil
	}
	return logger, closer, nil
}

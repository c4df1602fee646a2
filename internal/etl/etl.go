// Package etl chains the three stages for a single end-to-end run:
// extract -> transform -> load. Each stage still owns its own metrics and
// logs; this package only wires the file handoff between them and stops at
// the first failing stage.
package etl

import (
	"context"
	"time"

	"sportetl/internal/config"
	"sportetl/internal/extract"
	"sportetl/internal/load"
	"sportetl/internal/logger"
	"sportetl/internal/transform"

	log "github.com/sirupsen/logrus"
)

// Summary collects the per-stage results of Run.
type Summary struct {
	Extract   extract.Result
	Transform transform.Result
	Load      load.Result
	Elapsed   time.Duration
}

// Stage seams; tests replace them to observe ordering and handoff.
var (
	extractFn   = extract.Run
	transformFn = transform.Run
	loadFn      = load.Run
)

// Chain rewrites cfg so each stage reads what the previous one wrote.
func Chain(cfg config.Config) config.Config {
	cfg.Transform.Input = cfg.Extract.Output
	cfg.Load.Input = cfg.Transform.CleanedOutput
	if cfg.Load.AggregateInput != "" {
		cfg.Load.AggregateInput = cfg.Transform.AggregateOutput
	}
	cfg.Load.Delimiter = cfg.Transform.Delimiter
	return cfg
}

// Run executes all three stages in order.
func Run(ctx context.Context, cfg config.Config, lg logger.Logger) (Summary, error) {
	if lg == nil {
		lg = logger.Discard()
	}
	cfg = Chain(cfg)
	start := time.Now()

	var (
		sum Summary
		err error
	)
	if sum.Extract, err = extractFn(ctx, cfg, lg.WithField("stage", extract.Stage)); err != nil {
		return sum, err
	}
	if sum.Transform, err = transformFn(ctx, cfg, lg.WithField("stage", transform.Stage)); err != nil {
		return sum, err
	}
	if sum.Load, err = loadFn(ctx, cfg, lg.WithField("stage", load.Stage)); err != nil {
		return sum, err
	}

	sum.Elapsed = time.Since(start)
	lg.WithFields(log.Fields{
		"bytes":    sum.Extract.Bytes,
		"cleaned":  sum.Transform.Cleaned.Len(),
		"groups":   sum.Transform.Aggregate.Len(),
		"inserted": sum.Load.Inserted,
		"elapsed":  sum.Elapsed.Truncate(time.Millisecond).String(),
	}).Infof("etl: run complete")
	return sum, nil
}

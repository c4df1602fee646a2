// Package transform implements the cleaning stage: it parses the raw JSON
// document, reports on it, runs the cleaning chain, derives total_goals,
// aggregates by sport and writes the cleaned and aggregate CSV files.
//
// Both files are written only after every step succeeded; a coercion failure
// leaves no output behind.
package transform

import (
	"context"
	"time"

	"sportetl/internal/config"
	"sportetl/internal/datasource/file"
	"sportetl/internal/etlerr"
	"sportetl/internal/logger"
	"sportetl/internal/metrics"
	"sportetl/internal/parser"
	csvparser "sportetl/internal/parser/csv"
	"sportetl/internal/probe"
	"sportetl/internal/transformer"
	"sportetl/internal/transformer/builtin"
	"sportetl/pkg/records"

	log "github.com/sirupsen/logrus"
)

// Stage is the metrics/log label of this stage.
const Stage = "transform"

// Result carries the tables produced by Run.
type Result struct {
	Report    probe.Report
	Cleaned   records.Table
	Aggregate records.Table
}

// Chain returns the cleaning chain for the given column names: impute the
// scoring columns, drop residual nulls, remove exact duplicates, coerce
// matches won to a number and derive total goals.
func Chain(c config.Columns) transformer.Chain {
	return transformer.Chain{
		builtin.ImputeMean{Fields: []string{c.Goals, c.Assists, c.Points}},
		builtin.DropNulls{},
		builtin.DeDup{},
		builtin.Coerce{Fields: []string{c.MatchesWon}, Strict: true},
		builtin.Derive{Target: c.TotalGoals, Factors: []string{c.GamesPlayed, c.Goals}, Op: "product"},
	}
}

// Aggregation returns the per-sport summary transformer.
func Aggregation(c config.Columns) builtin.GroupSum {
	return builtin.GroupSum{
		By:     c.Sport,
		Sum:    []string{c.GamesPlayed, c.Goals, c.Assists},
		SortBy: c.Goals,
	}
}

// Clean runs the cleaning chain and the aggregation over raw. observe, when
// non-nil, sees every chain step.
func Clean(raw records.Table, c config.Columns, observe transformer.StepFunc) (cleaned, aggregate records.Table, err error) {
	cleaned, err = Chain(c).Run(raw, observe)
	if err != nil {
		return records.Table{}, records.Table{}, err
	}
	aggregate, err = Aggregation(c).Apply(cleaned)
	if err != nil {
		return records.Table{}, records.Table{}, err
	}
	return cleaned, aggregate, nil
}

// ReadTable parses the file at path with the parser its extension selects.
func ReadTable(ctx context.Context, path string, comma rune) (records.Table, error) {
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return records.Table{}, etlerr.New(etlerr.KindIO, "transform.read", err)
	}
	defer rc.Close()
	return parser.ForPath(path, comma).Parse(rc)
}

// Run executes the stage described by cfg.Transform.
func Run(ctx context.Context, cfg config.Config, lg logger.Logger) (res Result, err error) {
	if lg == nil {
		lg = logger.Discard()
	}
	tc := cfg.Transform
	start := time.Now()
	defer func() { metrics.RecordStage(cfg.Job, Stage, err, time.Since(start)) }()

	comma := config.Delim(tc.Delimiter)
	raw, err := ReadTable(ctx, tc.Input, comma)
	if err != nil {
		return Result{}, err
	}
	metrics.RecordRows(cfg.Job, metrics.KindParsed, raw.Len())

	res.Report = probe.Inspect(raw)
	lg.WithFields(log.Fields{
		"rows":       res.Report.Rows,
		"columns":    len(res.Report.Columns),
		"nulls":      res.Report.NullCounts(),
		"duplicates": res.Report.Duplicates,
	}).Debugf("transform: inspected %s", tc.Input)

	imputed := builtin.CountNulls(raw, tc.Columns.Goals, tc.Columns.Assists, tc.Columns.Points)
	observe := func(name string, before, after records.Table) {
		switch name {
		case "drop-nulls":
			metrics.RecordRows(cfg.Job, metrics.KindDroppedNull, before.Len()-after.Len())
		case "dedup":
			metrics.RecordRows(cfg.Job, metrics.KindDuplicates, before.Len()-after.Len())
		}
		lg.WithFields(log.Fields{
			"step": name,
			"in":   before.Len(),
			"out":  after.Len(),
		}).Debugf("transform: step done")
	}

	res.Cleaned, res.Aggregate, err = Clean(raw, tc.Columns, observe)
	if err != nil {
		return Result{}, err
	}
	metrics.RecordRows(cfg.Job, metrics.KindImputed, imputed)
	metrics.RecordRows(cfg.Job, metrics.KindCleaned, res.Cleaned.Len())
	metrics.RecordRows(cfg.Job, metrics.KindGroups, res.Aggregate.Len())

	opt := csvparser.Options{Comma: comma}
	if err := csvparser.WriteFile(tc.CleanedOutput, res.Cleaned, opt); err != nil {
		return Result{}, err
	}
	if err := csvparser.WriteFile(tc.AggregateOutput, res.Aggregate, opt); err != nil {
		return Result{}, err
	}

	lg.WithFields(log.Fields{
		"cleaned":        res.Cleaned.Len(),
		"groups":         res.Aggregate.Len(),
		"imputed":        imputed,
		"cleaned_path":   tc.CleanedOutput,
		"aggregate_path": tc.AggregateOutput,
	}).Infof("transform: wrote outputs")
	return res, nil
}

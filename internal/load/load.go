// Package load implements the database stage. It connects once per run,
// readies the destination table according to the load strategy and bulk
// inserts the cleaned CSV, then optionally refreshes the per-sport summary
// table from the aggregate CSV.
package load

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"sportetl/internal/config"
	"sportetl/internal/ddl"
	"sportetl/internal/etlerr"
	"sportetl/internal/logger"
	"sportetl/internal/metrics"
	csvparser "sportetl/internal/parser/csv"
	"sportetl/internal/schema"
	"sportetl/internal/storage"
	"sportetl/pkg/records"

	log "github.com/sirupsen/logrus"
)

// Stage is the metrics/log label of this stage.
const Stage = "load"

// Result summarizes a load.
type Result struct {
	Kind     string
	Table    string
	Inserted int64
	Skipped  []string

	AggregateTable    string
	AggregateInserted int64
}

// openFn is a test seam for the storage connection.
var openFn = storage.Open

// Run loads cfg.Load.Input into cfg.Load.Table and, when configured,
// cfg.Load.AggregateInput into cfg.Load.AggregateTable.
func Run(ctx context.Context, cfg config.Config, lg logger.Logger) (res Result, err error) {
	if lg == nil {
		lg = logger.Discard()
	}
	lc := cfg.Load
	start := time.Now()
	defer func() { metrics.RecordStage(cfg.Job, Stage, err, time.Since(start)) }()

	strategy, err := storage.ParseStrategy(lc.Strategy)
	if err != nil {
		return Result{}, err
	}
	if lc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lc.Timeout)
		defer cancel()
	}

	dsnLog := storage.Redact(lc.DSN)
	repo, sc, err := openFn(ctx, lc.DSN)
	if err != nil {
		lg.WithField("dsn", dsnLog).WithError(err).Errorf("load: connection failed")
		return Result{}, err
	}
	defer repo.Close()
	lg.WithFields(log.Fields{
		"kind": sc.Kind,
		"dsn":  dsnLog,
	}).Infof("load: connected")

	l := &loader{
		repo:      repo,
		kind:      sc.Kind,
		comma:     config.Delim(lc.Delimiter),
		batchSize: lc.BatchSize,
		job:       cfg.Job,
		log:       lg,
	}

	res = Result{Kind: sc.Kind, Table: lc.Table}
	res.Inserted, res.Skipped, err = l.loadFile(ctx, lc.Input, schema.Players(lc.Table), strategy)
	if err != nil {
		return res, err
	}

	if lc.AggregateInput != "" {
		res.AggregateTable = lc.AggregateTable
		// The summary is a snapshot of this run and is always replaced.
		res.AggregateInserted, _, err = l.loadFile(ctx, lc.AggregateInput, schema.SportSummary(lc.AggregateTable), storage.Replace)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

type loader struct {
	repo      storage.Repository
	kind      string
	comma     rune
	batchSize int
	job       string
	log       logger.Logger
}

// loadFile reads path, converts every row to td's column types and inserts
// them. Conversion happens before any DDL so a bad file never drops the
// existing table.
func (l *loader) loadFile(ctx context.Context, path string, td ddl.TableDef, s storage.Strategy) (int64, []string, error) {
	t, err := csvparser.ReadFile(path, csvparser.Options{Comma: l.comma, KeepText: true})
	if err != nil {
		return 0, nil, err
	}

	proj := schema.Project(t.Columns, td)
	if len(proj.Skipped) > 0 {
		l.log.WithFields(log.Fields{
			"table":   td.FQN,
			"columns": proj.Skipped,
		}).Warnf("load: skipping columns not in table schema")
	}
	cols, rows, err := Rows(t, td, proj)
	if err != nil {
		return 0, proj.Skipped, err
	}

	if err := storage.Prepare(ctx, l.kind, l.repo, td, s); err != nil {
		return 0, proj.Skipped, classify("load.prepare", err)
	}

	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		n, err := l.repo.CopyFrom(ctx, td.FQN, columns, batch)
		if err == nil {
			metrics.RecordBatches(l.job, 1)
		}
		return n, err
	}
	n, err := storage.LoadBatches(ctx, cols, storage.Feed(rows), l.batchSize, copyFn, l.log)
	metrics.RecordRows(l.job, metrics.KindInserted, int(n))
	if err != nil {
		metrics.RecordRows(l.job, metrics.KindSkipped, len(rows)-int(n))
		return n, proj.Skipped, classify("load.copy", err)
	}

	l.log.WithFields(log.Fields{
		"table":    td.FQN,
		"strategy": string(s),
		"rows":     n,
	}).Infof("load: inserted rows")
	return n, proj.Skipped, nil
}

// Rows converts t into insert rows for the projected columns of td.
// Destination columns with no source header are left to their default; a
// missing NOT NULL column is a config error.
func Rows(t records.Table, td ddl.TableDef, proj schema.Projection) ([]string, [][]any, error) {
	var (
		cols  []string
		src   []string
		types []string
	)
	for i, c := range proj.Columns {
		if proj.Source[i] < 0 {
			if def, _ := td.Column(c); !def.Nullable {
				return nil, nil, etlerr.Newf(etlerr.KindConfig, "load.project",
					"%s: required column %q has no matching CSV header", td.FQN, c)
			}
			continue
		}
		cols = append(cols, c)
		src = append(src, t.Columns[proj.Source[i]])
		types = append(types, proj.Types[i])
	}
	if len(cols) == 0 {
		return nil, nil, etlerr.Newf(etlerr.KindConfig, "load.project", "%s: no CSV header matches the table", td.FQN)
	}

	rows := make([][]any, 0, t.Len())
	for ri, rec := range t.Rows {
		row := make([]any, len(cols))
		for ci := range cols {
			v, err := Convert(rec[src[ci]], types[ci])
			if err != nil {
				// Line numbers are 1-based and count the header.
				return nil, nil, etlerr.New(etlerr.KindCoercion, "load.convert",
					fmt.Errorf("line %d column %q: %w", ri+2, src[ci], err))
			}
			row[ci] = v
		}
		rows = append(rows, row)
	}
	return cols, rows, nil
}

// Convert maps a CSV cell onto a value for a column of logical type typ.
// Nulls stay nil. Integer columns round fractional input to the nearest
// integer.
func Convert(v any, typ string) (any, error) {
	if records.IsNull(v) {
		return nil, nil
	}
	base, _ := ddl.SplitLength(typ)
	switch base {
	case "int":
		f, err := number(v)
		if err != nil {
			return nil, err
		}
		if math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
			return nil, fmt.Errorf("value %v out of integer range", v)
		}
		return int64(math.Round(f)), nil
	case "float":
		return number(v)
	default:
		return records.FormatValue(v), nil
	}
}

func number(v any) (float64, error) {
	if f, ok := records.AsFloat(v); ok {
		return f, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("non-numeric value %v", v)
	}
	n, err := records.ParseNumber(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("non-numeric value %q", s)
	}
	f, _ := records.AsFloat(n)
	return f, nil
}

func classify(op string, err error) error {
	if _, ok := etlerr.As(err); ok {
		return err
	}
	return etlerr.New(etlerr.KindDatabase, op, err)
}

// Package csv reads and writes delimited files as records.Table values.
//
// The cleaned and aggregate outputs are written with a header row holding
// the table's column names in order and no index column. Null cells become
// empty fields; whole floats are written without a fractional part.
//
// On read, empty fields become nulls and numeric-looking fields become int64
// or float64, so a written table reads back with equivalent values.
package csv

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"sportetl/internal/datasource/file"
	"sportetl/internal/etlerr"
	"sportetl/pkg/records"
)

const utf8BOM = "\uFEFF"

// Options configures the CSV reader and writer. Zero values are usable.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field before typing it.
	TrimSpace bool

	// KeepText disables numeric typing; every non-empty field stays a string.
	KeepText bool
}

func (o Options) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

// Parser reads delimited input with a header row.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse implements parser.Parser.
func (p *Parser) Parse(r io.Reader) (records.Table, error) {
	return Read(r, p.opt)
}

// Read consumes r completely. The first row is the header; a UTF-8 BOM on the
// first header cell is dropped. Rows whose width differs from the header are
// a parse error.
func Read(r io.Reader, opt Options) (records.Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = opt.comma()

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return records.Table{}, etlerr.Newf(etlerr.KindParse, "parse.csv", "missing header row")
	}
	if err != nil {
		return records.Table{}, etlerr.New(etlerr.KindParse, "parse.csv", fmt.Errorf("read header: %w", err))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	t := records.Table{Columns: cols}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records.Table{}, etlerr.New(etlerr.KindParse, "parse.csv", err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			rec[c] = typed(row[i], opt)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func typed(field string, opt Options) any {
	if opt.TrimSpace {
		field = strings.TrimSpace(field)
	}
	if field == "" {
		return nil
	}
	if opt.KeepText {
		return field
	}
	if v, err := records.ParseNumber(field); err == nil {
		return v
	}
	return field
}

// Write renders t to w: one header row, then one line per record in order.
func Write(w io.Writer, t records.Table, opt Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = opt.comma()

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	line := make([]string, len(t.Columns))
	for i, rec := range t.Rows {
		for j, c := range t.Columns {
			line[j] = records.FormatValue(rec[c])
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// WriteFile writes t to path atomically. A failure leaves any existing file
// at path unchanged.
func WriteFile(path string, t records.Table, opt Options) error {
	err := file.WriteAtomic(path, func(w io.Writer) error {
		bw := bufio.NewWriterSize(w, 64<<10)
		if err := Write(bw, t, opt); err != nil {
			return err
		}
		return bw.Flush()
	})
	if err != nil {
		return etlerr.New(etlerr.KindIO, "write.csv", err)
	}
	return nil
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, opt Options) (records.Table, error) {
	rc, err := file.NewLocal(path).Open(context.Background())
	if err != nil {
		return records.Table{}, etlerr.New(etlerr.KindIO, "read.csv", err)
	}
	defer rc.Close()
	return Read(rc, opt)
}

// Package json turns the extracted JSON document into a records.Table.
//
// The expected shape is a top-level array of flat objects:
//
//	[
//	    {"Sport": "Soccer", "Goals": 10, ...},
//	    {"Sport": "Rugby", "Goals": null, ...}
//	]
//
// Object keys are read token by token so the column order of the source
// survives into the table. Columns are the union of keys in first-seen order;
// a key missing from an object is a null cell. Nested objects and arrays are
// rejected. Integral numbers decode to
// int64 and other numbers to float64.
//
// With AllowNDJSON a stream of top-level objects ({...}\n{...}) is accepted
// as well.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"sportetl/internal/etlerr"
	"sportetl/pkg/records"
)

// Options configures the parser.
type Options struct {
	AllowNDJSON bool
}

// Parser decodes JSON documents into tables. It is stateless and safe to reuse.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse implements parser.Parser.
func (p *Parser) Parse(r io.Reader) (records.Table, error) {
	return DecodeTable(r, p.opt)
}

type tableBuilder struct {
	seen map[string]struct{}
	t    records.Table
}

func (b *tableBuilder) add(keys []string, rec records.Record) {
	for _, k := range keys {
		if _, ok := b.seen[k]; ok {
			continue
		}
		b.seen[k] = struct{}{}
		b.t.Columns = append(b.t.Columns, k)
	}
	b.t.Rows = append(b.t.Rows, rec)
}

// DecodeTable reads a whole document from r. Malformed input yields an
// etlerr parse error.
func DecodeTable(r io.Reader, opt Options) (records.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	b := &tableBuilder{seen: map[string]struct{}{}}

	tok, err := dec.Token()
	if err == io.EOF {
		return records.Table{}, parseErr("empty document")
	}
	if err != nil {
		return records.Table{}, parseErr("read root: %v", err)
	}

	switch tok {
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			t, err := dec.Token()
			if err != nil {
				return records.Table{}, parseErr("element %d: %v", i, err)
			}
			if t != json.Delim('{') {
				return records.Table{}, parseErr("element %d is not an object", i)
			}
			keys, rec, err := decodeObject(dec)
			if err != nil {
				return records.Table{}, parseErr("element %d: %v", i, err)
			}
			b.add(keys, rec)
		}
		if _, err := dec.Token(); err != nil {
			return records.Table{}, parseErr("close root array: %v", err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return records.Table{}, parseErr("unexpected data after root array")
		}
	case json.Delim('{'):
		if !opt.AllowNDJSON {
			return records.Table{}, parseErr("top-level object found; expected an array of records")
		}
		for i := 0; ; i++ {
			keys, rec, err := decodeObject(dec)
			if err != nil {
				return records.Table{}, parseErr("object %d: %v", i, err)
			}
			b.add(keys, rec)
			t, err := dec.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				return records.Table{}, parseErr("object %d: %v", i+1, err)
			}
			if t != json.Delim('{') {
				return records.Table{}, parseErr("object %d is not an object", i+1)
			}
		}
	default:
		return records.Table{}, parseErr("unsupported top-level value %v", tok)
	}

	return b.t, nil
}

// decodeObject reads the members of an object whose opening brace has already
// been consumed, including the closing brace.
func decodeObject(dec *json.Decoder) ([]string, records.Record, error) {
	var keys []string
	rec := records.Record{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, nil, fmt.Errorf("object key is %T", kt)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("value of %q: %w", key, err)
		}
		switch v.(type) {
		case map[string]any, []any:
			return nil, nil, fmt.Errorf("value of %q is nested; records must be flat", key)
		}
		if _, dup := rec[key]; !dup {
			keys = append(keys, key)
		}
		rec[key] = records.Normalize(v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, rec, nil
}

// Indent validates raw and re-indents it with four spaces, keeping key order
// and escapes as received. The result ends with a newline.
func Indent(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, parseErr("response body is not valid JSON")
	}
	var buf bytes.Buffer
	buf.Grow(len(raw) + len(raw)/4)
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return nil, parseErr("indent: %v", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func parseErr(format string, args ...any) error {
	return etlerr.Newf(etlerr.KindParse, "parse.json", format, args...)
}

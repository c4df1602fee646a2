// Package parser selects a table parser for an input file.
package parser

import (
	"io"
	"path/filepath"
	"strings"

	"sportetl/internal/parser/csv"
	"sportetl/internal/parser/json"
	"sportetl/pkg/records"
)

// Parser decodes a whole document into a table.
type Parser interface {
	Parse(r io.Reader) (records.Table, error)
}

// ForPath picks a parser by file extension: .csv and .tsv go to the CSV
// parser (tab-separated for .tsv), everything else is treated as JSON.
// comma applies to .csv files only.
func ForPath(path string, comma rune) Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csv.NewParser(csv.Options{Comma: comma})
	case ".tsv":
		return csv.NewParser(csv.Options{Comma: '\t'})
	case ".ndjson", ".jsonl":
		return json.NewParser(json.Options{AllowNDJSON: true})
	}
	return json.NewParser(json.Options{})
}

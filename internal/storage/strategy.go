package storage

import (
	"context"
	"strings"

	"sportetl/internal/ddl"
	"sportetl/internal/etlerr"
)

// Strategy decides what happens to an existing destination table.
type Strategy string

const (
	// Replace drops the table, recreates it and inserts.
	Replace Strategy = "replace"
	// Append creates the table if missing and inserts.
	Append Strategy = "append"
)

// ParseStrategy parses a strategy name. Empty means Replace.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Replace):
		return Replace, nil
	case string(Append):
		return Append, nil
	default:
		return "", etlerr.Newf(etlerr.KindConfig, "storage.strategy",
			"unknown load strategy %q (want replace or append)", s)
	}
}

// Prepare readies td for inserts according to s.
func Prepare(ctx context.Context, kind string, repo Repository, td ddl.TableDef, s Strategy) error {
	switch s {
	case Replace:
		if err := DropTable(ctx, kind, repo, td.FQN); err != nil {
			return err
		}
		return EnsureTable(ctx, kind, repo, td)
	case Append:
		return EnsureTable(ctx, kind, repo, td)
	default:
		return etlerr.Newf(etlerr.KindConfig, "storage.strategy", "unknown load strategy %q", s)
	}
}

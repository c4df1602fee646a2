package ddl

import (
	"fmt"
	"strings"

	gddl "sportetl/internal/ddl"
)

// BuildCreateTableSQL builds a Postgres CREATE TABLE IF NOT EXISTS statement
// with double-quoted identifiers. Primary-key columns are always NOT NULL and
// auto-increment columns become identity columns.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols := make([]gddl.ColumnDef, len(t.Columns))
	for i, c := range t.Columns {
		if c.PrimaryKey {
			c.Nullable = false
		}
		cols[i] = c
	}
	stmt, err := gddl.Render(gddl.TableDef{FQN: t.FQN, Columns: cols}, gddl.RenderOptions{
		Quote:         quoteIdent,
		IfNotExists:   true,
		AutoIncrement: "GENERATED BY DEFAULT AS IDENTITY",
	})
	if err != nil {
		return "", fmt.Errorf("postgres %w", err)
	}
	return stmt, nil
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string) (string, error) {
	return gddl.BuildDropTableSQL(fqn, quoteIdent)
}

// quoteIdent double-quotes one identifier segment, escaping embedded quotes.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// quoteFQN quotes a possibly schema-qualified name like "public.players".
func quoteFQN(fqn string) string {
	return gddl.QuoteFQN(fqn, quoteIdent)
}

package ddl

import (
	"fmt"
	"strings"

	gddl "sportetl/internal/ddl"
)

// BuildCreateTableSQL returns a SQLite CREATE TABLE IF NOT EXISTS statement.
//
// Auto-increment columns render inline as
// "INTEGER PRIMARY KEY AUTOINCREMENT", which SQLite requires for rowid
// aliasing; they are left out of the trailing PRIMARY KEY clause.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	for _, c := range t.Columns {
		if c.AutoIncrement && !strings.EqualFold(strings.TrimSpace(c.SQLType), "INTEGER") {
			return "", fmt.Errorf("sqlite ddl: auto-increment column %s must be INTEGER, got %q", c.Name, c.SQLType)
		}
	}
	stmt, err := gddl.Render(t, gddl.RenderOptions{
		Quote:            quoteIdent,
		IfNotExists:      true,
		AutoIncrement:    "PRIMARY KEY AUTOINCREMENT",
		InlinePrimaryKey: true,
	})
	if err != nil {
		return "", fmt.Errorf("sqlite %w", err)
	}
	return stmt, nil
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string) (string, error) {
	return gddl.BuildDropTableSQL(fqn, quoteIdent)
}

// quoteIdent quotes an identifier using double quotes, escaping embedded
// quotes.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// quoteFQN quotes each segment of a dotted name, ignoring empty segments.
func quoteFQN(fqn string) string {
	return gddl.QuoteFQN(fqn, quoteIdent)
}

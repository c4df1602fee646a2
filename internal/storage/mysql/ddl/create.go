package ddl

import (
	"fmt"
	"strings"

	gddl "sportetl/internal/ddl"
)

// BuildCreateTableSQL returns a MySQL CREATE TABLE IF NOT EXISTS statement
// with backtick quoting. Auto-increment columns get AUTO_INCREMENT and stay
// in the PRIMARY KEY clause.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	stmt, err := gddl.Render(t, gddl.RenderOptions{
		Quote:         QuoteIdent,
		IfNotExists:   true,
		AutoIncrement: "AUTO_INCREMENT",
	})
	if err != nil {
		return "", fmt.Errorf("mysql %w", err)
	}
	return stmt, nil
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string) (string, error) {
	return gddl.BuildDropTableSQL(fqn, QuoteIdent)
}

// QuoteIdent quotes an identifier with backticks, doubling embedded ones.
//
//	name     -> `name`
//	we`ird   -> `we``ird`
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// QuoteFQN quotes each segment of a dotted name, e.g. Sport_Db.players.
func QuoteFQN(fqn string) string {
	return gddl.QuoteFQN(fqn, QuoteIdent)
}

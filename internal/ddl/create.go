// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE and DROP TABLE statements from that model.
//
// BuildCreateTableSQL stays generic: it does not quote identifiers and adds
// no dialect clauses. Backend-specific packages (e.g.,
// internal/storage/postgres/ddl) call Render with their quoting and
// auto-increment syntax instead.
package ddl

import (
	"fmt"
	"strings"
)

// RenderOptions carries the dialect details Render needs.
type RenderOptions struct {
	// Quote quotes one identifier segment. Nil emits names verbatim.
	Quote func(string) string

	// IfNotExists adds IF NOT EXISTS after CREATE TABLE.
	IfNotExists bool

	// AutoIncrement is the clause appended to auto-increment columns,
	// e.g. "AUTO_INCREMENT" or "GENERATED BY DEFAULT AS IDENTITY".
	AutoIncrement string

	// InlinePrimaryKey renders auto-increment primary keys inside the
	// column clause (AutoIncrement then carries "PRIMARY KEY ...") and
	// leaves them out of the trailing PRIMARY KEY constraint.
	InlinePrimaryKey bool

	// Indent prefixes every column line. Default two spaces.
	Indent string
}

// BuildCreateTableSQL renders a generic CREATE TABLE statement from a TableDef.
//
// Rules:
//
//   - t.FQN must be non-empty; it is emitted verbatim as the table name.
//
//   - Each column must have a non-empty Name and SQLType.
//
//   - A column is rendered as:
//
//     <Name> <SQLType> [NOT NULL] [<autoincrement>]
//
//   - Columns with PrimaryKey == true are collected and rendered as a separate
//     PRIMARY KEY (<col1>, <col2>, ...) clause at the end of the column list.
//
// The generic auto-increment clause is the SQL-standard identity column,
// which Postgres accepts.
func BuildCreateTableSQL(t TableDef) (string, error) {
	return Render(t, RenderOptions{AutoIncrement: "GENERATED BY DEFAULT AS IDENTITY"})
}

// Render renders CREATE TABLE for t using the dialect options in opt.
func Render(t TableDef, opt RenderOptions) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}
	quote := opt.Quote
	if quote == nil {
		quote = func(s string) string { return s }
	}
	indent := opt.Indent
	if indent == "" {
		indent = "  "
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(quote(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)

		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if c.AutoIncrement && opt.AutoIncrement != "" {
			sb.WriteByte(' ')
			sb.WriteString(opt.AutoIncrement)
		}

		cols = append(cols, sb.String())

		if c.PrimaryKey && !(c.AutoIncrement && opt.InlinePrimaryKey) {
			pks = append(pks, quote(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	create := "CREATE TABLE "
	if opt.IfNotExists {
		create += "IF NOT EXISTS "
	}
	return fmt.Sprintf(
		"%s%s (\n%s%s\n);",
		create,
		QuoteFQN(fqn, opt.Quote),
		indent,
		strings.Join(cols, ",\n"+indent),
	), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string, quote func(string) string) (string, error) {
	q := QuoteFQN(fqn, quote)
	if q == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	return "DROP TABLE IF EXISTS " + q + ";", nil
}

// QuoteFQN quotes each dotted segment of fqn with quote, dropping empty
// segments. A nil quote returns the trimmed fqn.
//
//	"main.events" -> "main"."events"
//	" .main..x. " -> "main"."x"
func QuoteFQN(fqn string, quote func(string) string) string {
	if quote == nil {
		return strings.TrimSpace(fqn)
	}
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}

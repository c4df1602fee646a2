package ddl

import (
	"strconv"
	"strings"
)

// ColumnDef describes a single column in a table definition. It uses simple,
// database-agnostic fields.
//
// Fields:
//   - Name: column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type, or a logical type before MapTypes runs
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - AutoIncrement: the database assigns the value on insert
type ColumnDef struct {
	Name          string
	SQLType       string
	Nullable      bool
	PrimaryKey    bool
	AutoIncrement bool
}

// TableDef holds the fully-qualified table name (FQN) and an ordered list of
// columns. The FQN is expected in dotted form (e.g., "schema.table") and will
// be quoted/escaped by renderers as needed.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// MapTypes returns a copy of t with every SQLType passed through fn.
func (t TableDef) MapTypes(fn func(string) string) TableDef {
	out := TableDef{FQN: t.FQN, Columns: make([]ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		c.SQLType = fn(c.SQLType)
		out.Columns[i] = c
	}
	return out
}

// InsertColumns lists the columns a loader writes, skipping auto-increment
// columns.
func (t TableDef) InsertColumns() []string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.AutoIncrement {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// Column returns the named column definition.
func (t TableDef) Column(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// SplitLength splits a logical type such as "varchar(100)" into its
// lower-cased base and length. Types without a valid length return 0.
//
//	"varchar(100)" -> ("varchar", 100)
//	"INT"          -> ("int", 0)
func SplitLength(kind string) (string, int) {
	k := strings.ToLower(strings.TrimSpace(kind))
	open := strings.IndexByte(k, '(')
	if open < 0 || !strings.HasSuffix(k, ")") {
		return k, 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(k[open+1 : len(k)-1]))
	if err != nil || n <= 0 {
		return strings.TrimSpace(k[:open]), 0
	}
	return strings.TrimSpace(k[:open]), n
}

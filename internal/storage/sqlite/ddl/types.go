// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import (
	gddl "sportetl/internal/ddl"
)

// MapType maps a logical type string (e.g., "int", "varchar(50)") into a
// SQLite column type.
//
// SQLite uses type affinity, so lengths are dropped:
//   - integer-ish types -> INTEGER
//   - boolean          -> INTEGER (0/1)
//   - date/time        -> TEXT (ISO-8601)
//   - others           -> TEXT
func MapType(kind string) string {
	base, _ := gddl.SplitLength(kind)
	switch base {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "bool", "boolean":
		return "INTEGER"
	case "float", "double", "real":
		return "REAL"
	case "numeric", "decimal":
		return "NUMERIC"
	case "blob", "bytes":
		return "BLOB"
	default:
		return "TEXT"
	}
}

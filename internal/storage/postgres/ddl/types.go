// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import (
	"fmt"

	gddl "sportetl/internal/ddl"
)

// MapType normalizes a loosely-specified logical type into a Postgres SQL type.
//
//	"int"/"integer"           -> INTEGER
//	"bigint"                  -> BIGINT
//	"float"/"double"          -> DOUBLE PRECISION
//	"bool"/"boolean"          -> BOOLEAN
//	"date"                    -> DATE
//	"timestamp"/"timestamptz" -> TIMESTAMPTZ
//	"varchar(n)"              -> VARCHAR(n)
//	everything else           -> TEXT
func MapType(kind string) string {
	base, n := gddl.SplitLength(kind)
	switch base {
	case "int", "integer":
		return "INTEGER"
	case "bigint":
		return "BIGINT"
	case "float", "double", "real":
		return "DOUBLE PRECISION"
	case "numeric", "decimal":
		return "NUMERIC"
	case "bool", "boolean":
		return "BOOLEAN"
	case "date":
		return "DATE"
	case "timestamp", "timestamptz":
		return "TIMESTAMPTZ"
	case "varchar":
		if n > 0 {
			return fmt.Sprintf("VARCHAR(%d)", n)
		}
		return "TEXT"
	default:
		return "TEXT"
	}
}

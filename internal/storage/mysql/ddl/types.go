// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import (
	"fmt"

	gddl "sportetl/internal/ddl"
)

// MapType maps a logical type string into a MySQL column type.
//
//	"int"/"integer"  -> INT
//	"bigint"         -> BIGINT
//	"float"/"double" -> DOUBLE
//	"bool"           -> TINYINT(1)
//	"date"           -> DATE
//	"timestamp"      -> DATETIME
//	"varchar(n)"     -> VARCHAR(n)
//	everything else  -> TEXT
func MapType(kind string) string {
	base, n := gddl.SplitLength(kind)
	switch base {
	case "int", "integer":
		return "INT"
	case "bigint":
		return "BIGINT"
	case "float", "double", "real":
		return "DOUBLE"
	case "numeric", "decimal":
		return "DECIMAL(38, 10)"
	case "bool", "boolean":
		return "TINYINT(1)"
	case "date":
		return "DATE"
	case "timestamp", "datetime", "timestamptz":
		return "DATETIME"
	case "varchar", "string":
		if n > 0 {
			return fmt.Sprintf("VARCHAR(%d)", n)
		}
		return "TEXT"
	default:
		return "TEXT"
	}
}

// Package ddl contains MSSQL-specific helpers for generating DDL.
//
// It maps logical types into SQL Server types. The mapping is conservative
// and biased toward safe, widely-supported choices; text is always Unicode.
package ddl

import (
	"fmt"

	gddl "sportetl/internal/ddl"
)

// MapType maps a logical type string into a SQL Server column type.
//
// The input is typically a logical type name such as:
//
//	"int", "integer", "bigint", "bool", "boolean", "date", "float",
//	"timestamp", "datetime", "varchar(n)", "string", "text"
//
// Unknown or empty kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	base, n := gddl.SplitLength(kind)
	switch base {
	case "int", "integer":
		return "INT"
	case "bigint":
		return "BIGINT"
	case "bool", "boolean":
		return "BIT"
	case "date":
		return "DATE"
	case "timestamp", "datetime", "timestamptz":
		return "DATETIME2"
	case "float", "double", "real":
		return "FLOAT"
	case "numeric", "decimal":
		return "DECIMAL(38, 10)"
	case "uuid":
		return "UNIQUEIDENTIFIER"
	case "varchar", "nvarchar":
		if n > 0 && n <= 4000 {
			return fmt.Sprintf("NVARCHAR(%d)", n)
		}
		return "NVARCHAR(MAX)"
	default:
		return "NVARCHAR(MAX)"
	}
}

// Package ddl provides MSSQL-specific helpers for generating CREATE TABLE
// and DROP TABLE statements from the generic ddl.TableDef model.
//
// The builder here:
//   - Uses SQL Server-style identifier quoting: [schema].[table], [col].
//   - Wraps CREATE TABLE in an IF OBJECT_ID(...) IS NULL guard since T-SQL
//     does not support CREATE TABLE IF NOT EXISTS.
//   - Renders auto-increment columns as IDENTITY(1,1).
package ddl

import (
	"fmt"
	"strings"

	gddl "sportetl/internal/ddl"
)

// BuildCreateTableSQL returns a T-SQL script that creates a table matching
// the provided definition if it does not already exist.
//
// The generated script has the form:
//
//	IF OBJECT_ID(N'[schema].[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [schema].[table] (
//	    [col1] TYPE [NOT NULL] [IDENTITY(1,1)],
//	    [col2] TYPE,
//	    PRIMARY KEY ([pk1], [pk2])
//	  );
//	END;
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	inner, err := gddl.Render(t, gddl.RenderOptions{
		Quote:         quoteIdent,
		AutoIncrement: "IDENTITY(1,1)",
		Indent:        "    ",
	})
	if err != nil {
		return "", fmt.Errorf("mssql %w", err)
	}
	fqn := quoteFQN(t.FQN)
	inner = "  " + strings.TrimSuffix(inner, "\n);") + "\n  );"
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n%s\nEND;", objectName(fqn), inner), nil
}

// BuildDropTableSQL returns a guarded DROP TABLE for fqn.
func BuildDropTableSQL(fqn string) (string, error) {
	q := quoteFQN(fqn)
	if q == "" {
		return "", fmt.Errorf("mssql ddl: table FQN must not be empty")
	}
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s;", objectName(q), q), nil
}

// objectName escapes a quoted name for use inside an N'...' literal.
func objectName(quoted string) string {
	return strings.ReplaceAll(quoted, "'", "''")
}

// quoteIdent quotes a single identifier segment for SQL Server using
// bracket syntax, escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// quoteFQN quotes a possibly schema-qualified table name, e.g.:
//
//	"dbo.Users"   -> [dbo].[Users]
//	"Users"       -> [Users]
func quoteFQN(fqn string) string {
	return gddl.QuoteFQN(fqn, quoteIdent)
}

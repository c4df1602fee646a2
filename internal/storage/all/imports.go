// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories and DDL dialects with the storage package. After importing
// it, the kinds "mysql", "postgres", "mssql" and "sqlite" are available to
// storage.Open.
//
// A binary that needs only a subset can import the backends it wants
// directly instead.
package all

import (
	_ "sportetl/internal/storage/mssql"
	_ "sportetl/internal/storage/mysql"
	_ "sportetl/internal/storage/postgres"
	_ "sportetl/internal/storage/sqlite"
)

// This adapter wires the MySQL backend into the storage-agnostic factory.
package mysql

import (
	"context"

	"sportetl/internal/storage"
	mysqlddl "sportetl/internal/storage/mysql/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

// init registers the "mysql" backend and its DDL dialect.
func init() {
	storage.Register(storage.KindMySQL, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL(storage.KindMySQL, storage.Dialect{
		MapType:     mysqlddl.MapType,
		CreateTable: mysqlddl.BuildCreateTableSQL,
		DropTable:   mysqlddl.BuildDropTableSQL,
	})
}

// wrappedRepo adapts *Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close closes the underlying connection pool.
func (w *wrappedRepo) Close() { w.closeFn() }

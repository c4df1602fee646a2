// This adapter wires the Postgres backend into the storage-agnostic factory
// by registering a constructor and its DDL dialect at init time.
package postgres

import (
	"context"

	"sportetl/internal/storage"
	pgddl "sportetl/internal/storage/postgres/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to *Repository
// while providing a Close method that calls the close function returned by
// NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register(storage.KindPostgres, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL(storage.KindPostgres, storage.Dialect{
		MapType:     pgddl.MapType,
		CreateTable: pgddl.BuildCreateTableSQL,
		DropTable:   pgddl.BuildDropTableSQL,
	})
}

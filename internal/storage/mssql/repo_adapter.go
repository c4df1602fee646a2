package mssql

import (
	"context"

	"sportetl/internal/storage"
	msddl "sportetl/internal/storage/mssql/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register(storage.KindMSSQL, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL(storage.KindMSSQL, storage.Dialect{
		MapType:     msddl.MapType,
		CreateTable: msddl.BuildCreateTableSQL,
		DropTable:   msddl.BuildDropTableSQL,
	})
}

type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() { w.closeFn() }

package storage

import (
	"context"
	"fmt"
	"sync"

	"sportetl/internal/ddl"
	"sportetl/internal/etlerr"
)

// Dialect is the backend-specific DDL surface. Backends register one per
// storage kind at init time.
type Dialect struct {
	// MapType maps a logical type ("int", "float", "varchar(50)") to SQL.
	MapType func(logical string) string

	// CreateTable renders an idempotent CREATE TABLE.
	CreateTable func(t ddl.TableDef) (string, error)

	// DropTable renders an idempotent DROP TABLE.
	DropTable func(fqn string) (string, error)
}

var (
	ddlMu    sync.RWMutex
	dialects = map[string]Dialect{}
)

// RegisterDDL registers (or replaces) the Dialect for kind.
func RegisterDDL(kind string, d Dialect) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	dialects[kind] = d
}

// DialectFor returns the Dialect registered for kind.
func DialectFor(kind string) (Dialect, error) {
	ddlMu.RLock()
	d, ok := dialects[kind]
	ddlMu.RUnlock()
	if !ok {
		return Dialect{}, fmt.Errorf("no DDL dialect registered for storage.kind=%q", kind)
	}
	return d, nil
}

// EnsureTable maps td's logical types for kind and creates the table if it
// does not exist.
func EnsureTable(ctx context.Context, kind string, repo Repository, td ddl.TableDef) error {
	d, err := DialectFor(kind)
	if err != nil {
		return err
	}
	if d.MapType != nil {
		td = td.MapTypes(d.MapType)
	}
	stmt, err := d.CreateTable(td)
	if err != nil {
		return etlerr.New(etlerr.KindConfig, "storage.ddl", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return etlerr.New(etlerr.KindDatabase, "storage.ddl", fmt.Errorf("create %s: %w", td.FQN, err))
	}
	return nil
}

// DropTable drops fqn if it exists.
func DropTable(ctx context.Context, kind string, repo Repository, fqn string) error {
	d, err := DialectFor(kind)
	if err != nil {
		return err
	}
	stmt, err := d.DropTable(fqn)
	if err != nil {
		return etlerr.New(etlerr.KindConfig, "storage.ddl", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return etlerr.New(etlerr.KindDatabase, "storage.ddl", fmt.Errorf("drop %s: %w", fqn, err))
	}
	return nil
}

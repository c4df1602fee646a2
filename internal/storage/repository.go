// Package storage contains storage-agnostic contracts and utilities: the
// backend factory, DSN resolution, DDL bootstrap, load strategies and the
// batched loader. Concrete backends live in subpackages and register
// themselves in init; import internal/storage/all to enable all of them.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sportetl/internal/etlerr"
)

// Repository is the minimal surface a backend exposes to the loader.
type Repository interface {
	// CopyFrom bulk-inserts rows (aligned to columns) into table and returns
	// the number of rows written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Close releases the connection pool.
	Close()
}

// Config selects a backend and carries its driver-ready DSN.
type Config struct {
	Kind string
	DSN  string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open resolves a URL-style DSN and connects to the matching backend.
// Connection failures are classified as database connect errors.
func Open(ctx context.Context, dsn string) (Repository, Config, error) {
	cfg, err := Resolve(dsn)
	if err != nil {
		return nil, Config{}, err
	}
	repo, err := New(ctx, cfg)
	if err != nil {
		return nil, cfg, etlerr.Connect("storage.connect", err)
	}
	return repo, cfg, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/aliskhannn/wordplan/internal/infra/postgres"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a storage backend.
type Options struct {
	Driver string
	Path   string   // data directory for file, database file for sqlite
	DSN    string   // connection string for postgres
	Fs     afero.Fs // file system for the file driver, defaults to the OS
	Pool   postgres.PoolConfig
}

// Open creates the backend named by opts.Driver. The returned function
// releases its resources.
func Open(ctx context.Context, opts Options) (Store, func(), error) {
	noop := func() {}

	switch opts.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), noop, nil

	case DriverFile:
		fs := opts.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		s, err := NewFileStore(fs, opts.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case DriverSQLite:
		s, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case DriverPostgres:
		if opts.DSN == "" {
			return nil, nil, fmt.Errorf("postgres storage: empty DSN")
		}
		pool, err := postgres.NewPool(ctx, opts.DSN, opts.Pool)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres storage: %w", err)
		}
		s := NewPostgresStore(pool, postgres.NewTransactor(pool))
		if err = s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

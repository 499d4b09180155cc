// Package db provides the Postgres storage of employees via pgx.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const logPrefix = "db:pool"

const (
	maxConns = 20
	minConns = 2
)

// NewPool creates a new pgx connection pool from the given database URL.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	slog.Info(fmt.Sprintf("%s - Connecting to employee database", logPrefix))

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to parse database URL: %w", logPrefix, err)
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = minConns
	if _, set := poolCfg.ConnConfig.RuntimeParams["application_name"]; !set {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = "employee-service"
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to create pool: %w", logPrefix, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s - failed to ping database: %w", logPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Database connection established", logPrefix))
	return pool, nil
}

// RunMigrations applies migrations in order. Every file must be idempotent;
// the whole list runs on each startup.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, migrations []Migration) error {
	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("%s - migration %s failed: %w", logPrefix, m.Name, err)
		}
		slog.Debug(fmt.Sprintf("%s - applied %s", logPrefix, m.Name))
	}
	slog.Info(fmt.Sprintf("%s - %d migrations applied", logPrefix, len(migrations)))
	return nil
}

// MigrationState is the outcome of MigrationStatus.
type MigrationState struct {
	Applied bool
	Files   int
	Path    string
}

func (s MigrationState) String() string {
	if s.Applied {
		return fmt.Sprintf("Migration status: applied (employees table present, %d migration files in %s)", s.Files, s.Path)
	}
	return fmt.Sprintf("Migration status: not applied (run 'employees migrate up'). %d migration files in %s", s.Files, s.Path)
}

// MigrationStatus reports whether the employees table exists.
func MigrationStatus(ctx context.Context, pool *pgxpool.Pool, migrationPath string) (MigrationState, error) {
	const statusLogPrefix = "db:MigrationStatus"

	var exists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = 'employees')`).Scan(&exists)
	if err != nil {
		return MigrationState{}, fmt.Errorf("%s - failed to check schema: %w", statusLogPrefix, err)
	}

	migrations, err := LoadMigrationFiles(migrationPath)
	if err != nil {
		return MigrationState{}, fmt.Errorf("%s - load migration list: %w", statusLogPrefix, err)
	}
	return MigrationState{Applied: exists, Files: len(migrations), Path: migrationPath}, nil
}

package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const clearLogPrefix = "db:clear"

// ClearEmployees removes every employee and restarts the id sequence. The
// schema is preserved.
func ClearEmployees(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info(fmt.Sprintf("%s - Clearing employees", clearLogPrefix))

	if _, err := pool.Exec(ctx, `TRUNCATE TABLE employees RESTART IDENTITY`); err != nil {
		return fmt.Errorf("%s - truncate failed: %w", clearLogPrefix, err)
	}
	return nil
}

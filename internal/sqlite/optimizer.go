package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// optimizeInterval is how often PRAGMA optimize runs on the long-lived write connection.
const optimizeInterval = time.Hour

// startDatabaseOptimizer runs optimize until ctx is done. See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) startDatabaseOptimizer(ctx context.Context) {
	ticker := time.NewTicker(optimizeInterval)
	defer ticker.Stop()
	// The first run analyzes every table.
	db.optimize(ctx, "PRAGMA optimize = 0x10002;")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			db.optimize(ctx, "PRAGMA optimize;")
		}
	}
}

func (db *Database) optimize(ctx context.Context, pragma string) {
	start := time.Now()
	if _, err := db.ReadWrite.ExecContext(ctx, pragma); err != nil {
		if ctx.Err() != nil {
			return
		}
		db.logger.LogAttrs(ctx, slog.LevelWarn, "failed to optimize database",
			slog.Any("error", fmt.Errorf("optimize database: %w", err)))
		return
	}
	db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database", slog.Duration("duration", time.Since(start)))
}

package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// migrateTo brings the live schema in line with schemaDefinition.
//
// The target schema is created in an attached in-memory database and diffed against the live one:
// removed tables are dropped, new tables created, and tables whose definition changed are rebuilt
// with the columns both versions share (https://www.sqlite.org/lang_altertable.html#otheralter).
// Indexes are then dropped, created or recreated to match.
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) error {
	start := time.Now()

	detach, err := db.attachTarget(ctx, schemaDefinition)
	if err != nil {
		return fmt.Errorf("attach target schema: %w", err)
	}
	defer detach()

	// Table rebuilds drop tables that others reference.
	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		if _, fkErr := db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to re-enable foreign keys", slog.Any("error", fkErr))
		}
	}()

	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer db.Rollback(ctx, tx)()

	if err = db.migrateTables(ctx, tx); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	if err = db.migrateIndexes(ctx, tx); err != nil {
		return fmt.Errorf("migrate indexes: %w", err)
	}

	var violations []string
	if violations, err = queryStrings(ctx, tx, `SELECT "table" FROM pragma_foreign_key_check`); err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	if len(violations) > 0 {
		return fmt.Errorf("foreign key violations in %s", strings.Join(violations, ", "))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	db.logger.LogAttrs(ctx, slog.LevelDebug, "migrated database", slog.Duration("duration", time.Since(start)))
	return nil
}

// attachTarget creates schemaDefinition in a fresh in-memory database attached as "target".
// The returned function detaches it.
func (db *Database) attachTarget(ctx context.Context, schemaDefinition string) (func(), error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	target, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	// The shared cache database lives as long as one connection is open, the attachment counts as one.
	defer func() {
		if closeErr := target.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelWarn, "failed to close target schema", slog.Any("error", closeErr))
		}
	}()
	if _, err = target.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, fmt.Errorf("create target schema: %w", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS target", dsn); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	return func() {
		if _, detachErr := db.ReadWrite.ExecContext(ctx, "DETACH DATABASE target"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach target schema", slog.Any("error", detachErr))
		}
	}, nil
}

// schemaEntry is a row of sqlite_schema present in the live schema, the target schema, or both.
type schemaEntry struct {
	name      string
	liveSQL   sql.NullString
	targetSQL sql.NullString
}

func (e schemaEntry) removed() bool { return !e.targetSQL.Valid }
func (e schemaEntry) added() bool   { return !e.liveSQL.Valid }

func (e schemaEntry) changed() bool {
	// Renames quote the table name in the stored SQL.
	unquote := func(s string) string { return strings.ReplaceAll(s, `"`, "") }
	return e.liveSQL.Valid && e.targetSQL.Valid && unquote(e.liveSQL.String) != unquote(e.targetSQL.String)
}

// diffSchema pairs up the live and target entries of the given type by name.
func diffSchema(ctx context.Context, tx *sql.Tx, typ string) (_ []schemaEntry, err error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT live.name, live.sql, target.sql
		FROM main.sqlite_schema AS live
		         LEFT JOIN target.sqlite_schema AS target ON target.name = live.name AND target.type = live.type
		WHERE live.type = :type AND live.name NOT LIKE 'sqlite_%'
		UNION ALL
		SELECT target.name, NULL, target.sql
		FROM target.sqlite_schema AS target
		WHERE target.type = :type
		  AND target.name NOT LIKE 'sqlite_%'
		  AND NOT EXISTS (SELECT 1 FROM main.sqlite_schema AS live
		                  WHERE live.name = target.name AND live.type = target.type)`,
		sql.Named("type", typ))
	if err != nil {
		return nil, fmt.Errorf("query %s schema: %w", typ, err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()
	var entries []schemaEntry
	for rows.Next() {
		var e schemaEntry
		if err = rows.Scan(&e.name, &e.liveSQL, &e.targetSQL); err != nil {
			return nil, fmt.Errorf("scan %s schema: %w", typ, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s schema: %w", typ, err)
	}
	return entries, nil
}

func (db *Database) migrateTables(ctx context.Context, tx *sql.Tx) error {
	tables, err := diffSchema(ctx, tx, "table")
	if err != nil {
		return err
	}
	for _, t := range tables {
		logger := db.logger.With(slog.String("table", t.name))
		switch {
		case t.removed():
			logger.LogAttrs(ctx, slog.LevelInfo, "dropping table")
			if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q", t.name)); err != nil {
				return fmt.Errorf("drop %s: %w", t.name, err)
			}
		case t.added():
			logger.LogAttrs(ctx, slog.LevelInfo, "creating table")
			if _, err = tx.ExecContext(ctx, t.targetSQL.String); err != nil {
				return fmt.Errorf("create %s: %w", t.name, err)
			}
		case t.changed():
			logger.LogAttrs(ctx, slog.LevelInfo, "rebuilding table",
				slog.String("live_sql", t.liveSQL.String), slog.String("target_sql", t.targetSQL.String))
			if err = rebuildTable(ctx, tx, t); err != nil {
				return fmt.Errorf("rebuild %s: %w", t.name, err)
			}
		}
	}
	return nil
}

// rebuildTable creates the target definition under a temporary name, copies the shared columns over
// and swaps the tables.
func rebuildTable(ctx context.Context, tx *sql.Tx, t schemaEntry) error {
	tmp := t.name + "_migration"
	createTmp := strings.Replace(t.targetSQL.String, t.name, tmp, 1)
	if _, err := tx.ExecContext(ctx, createTmp); err != nil {
		return fmt.Errorf("create temporary table: %w", err)
	}
	columns, err := queryStrings(ctx, tx, `
		SELECT '"' || live.name || '"'
		FROM pragma_table_info(:table) AS live
		         JOIN pragma_table_info(:table, 'target') AS target ON target.name = live.name`,
		sql.Named("table", t.name))
	if err != nil {
		return fmt.Errorf("query shared columns: %w", err)
	}
	if len(columns) > 0 {
		shared := strings.Join(columns, ", ")
		//nolint:gosec // identifiers come from sqlite_schema.
		copySQL := fmt.Sprintf("INSERT INTO %q (%s) SELECT %s FROM %q", tmp, shared, shared, t.name)
		if _, err = tx.ExecContext(ctx, copySQL); err != nil {
			return fmt.Errorf("copy rows: %w", err)
		}
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q", t.name)); err != nil {
		return fmt.Errorf("drop old table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %q RENAME TO %q", tmp, t.name)); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// migrateIndexes runs after migrateTables, so indexes of rebuilt tables are already gone and count as added.
func (db *Database) migrateIndexes(ctx context.Context, tx *sql.Tx) error {
	indexes, err := diffSchema(ctx, tx, "index")
	if err != nil {
		return err
	}
	for _, idx := range indexes {
		if idx.removed() || idx.changed() {
			db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping index", slog.String("index", idx.name))
			if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP INDEX %q", idx.name)); err != nil {
				return fmt.Errorf("drop index %s: %w", idx.name, err)
			}
		}
		if idx.added() || idx.changed() {
			db.logger.LogAttrs(ctx, slog.LevelInfo, "creating index", slog.String("index", idx.name))
			if _, err = tx.ExecContext(ctx, idx.targetSQL.String); err != nil {
				return fmt.Errorf("create index %s: %w", idx.name, err)
			}
		}
	}
	return nil
}

// queryStrings returns the first column of every row.
func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) (_ []string, err error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()
	var results []string
	for rows.Next() {
		var s string
		if err = rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		results = append(results, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return results, nil
}

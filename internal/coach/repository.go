package coach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mulhim/planner/internal/sqlite"
)

// Kind names a plan document.
type Kind string

const (
	KindProfile             Kind = "profile"
	KindWeekPlan            Kind = "week_plan"
	KindNutritionAssessment Kind = "nutrition_assessment"
	KindNutritionPlan       Kind = "nutrition_plan"
	KindMealPlan            Kind = "meal_plan"
	KindGroceryList         Kind = "grocery_list"
)

//nolint:gochecknoglobals // load order.
var allKinds = []Kind{
	KindProfile, KindWeekPlan, KindNutritionAssessment, KindNutritionPlan, KindMealPlan, KindGroceryList,
}

// outboxEntry is a document version waiting to be pushed.
type outboxEntry struct {
	Kind      Kind
	Payload   []byte
	Version   int64
	Attempts  int
	LastError string
	UpdatedAt time.Time
}

// sqliteRepository stores one user's documents and their outbox rows.
type sqliteRepository struct {
	db     *sqlite.Database
	userID string
	logger *slog.Logger
}

func newSQLiteRepository(db *sqlite.Database, userID string, logger *slog.Logger) *sqliteRepository {
	return &sqliteRepository{db: db, userID: userID, logger: logger}
}

// save replaces the document and queues it for the remote store in the same transaction.
// A queued older version of the same kind is superseded.
func (r *sqliteRepository) save(ctx context.Context, kind Kind, payload []byte, now time.Time) error {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer r.db.Rollback(ctx, tx)()

	updatedAt := now.UTC().Format(sqlite.TimestampFormat)
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO documents (user_id, kind, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, kind) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		r.userID, string(kind), string(payload), updatedAt); err != nil {
		return fmt.Errorf("upsert document %s: %w", kind, err)
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO sync_outbox (user_id, kind, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, kind) DO UPDATE SET
			payload = excluded.payload,
			version = sync_outbox.version + 1,
			attempts = 0,
			last_error = NULL,
			updated_at = excluded.updated_at`,
		r.userID, string(kind), string(payload), updatedAt); err != nil {
		return fmt.Errorf("enqueue %s: %w", kind, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// load returns the stored payload of kind or ErrNotFound.
func (r *sqliteRepository) load(ctx context.Context, kind Kind) ([]byte, error) {
	var payload string
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT payload FROM documents WHERE user_id = ? AND kind = ?`, r.userID, string(kind)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("query document %s: %w", kind, err)
	}
	return []byte(payload), nil
}

// pending lists the queued documents, oldest first.
func (r *sqliteRepository) pending(ctx context.Context) (_ []outboxEntry, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT kind, payload, version, attempts, COALESCE(last_error, ''), updated_at
		FROM sync_outbox
		WHERE user_id = ?
		ORDER BY updated_at, kind`, r.userID)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var entries []outboxEntry
	for rows.Next() {
		var (
			e         outboxEntry
			kind      string
			payload   string
			updatedAt string
		)
		if err = rows.Scan(&kind, &payload, &e.Version, &e.Attempts, &e.LastError, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		if e.UpdatedAt, err = time.Parse(sqlite.TimestampFormat, updatedAt); err != nil {
			return nil, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
		}
		e.Kind = Kind(kind)
		e.Payload = []byte(payload)
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return entries, nil
}

// acknowledge removes the entry unless a newer version was queued meanwhile.
func (r *sqliteRepository) acknowledge(ctx context.Context, e outboxEntry) error {
	res, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM sync_outbox WHERE user_id = ? AND kind = ? AND version = ?`,
		r.userID, string(e.Kind), e.Version)
	if err != nil {
		return fmt.Errorf("delete outbox row %s: %w", e.Kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "outbox row superseded during push",
			slog.String("kind", string(e.Kind)), slog.Int64("version", e.Version))
	}
	return nil
}

// recordFailure counts a failed push of the entry's version.
func (r *sqliteRepository) recordFailure(ctx context.Context, e outboxEntry, cause error) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE sync_outbox SET attempts = attempts + 1, last_error = ?
		WHERE user_id = ? AND kind = ? AND version = ?`,
		cause.Error(), r.userID, string(e.Kind), e.Version); err != nil {
		return fmt.Errorf("record push failure %s: %w", e.Kind, err)
	}
	return nil
}

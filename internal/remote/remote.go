// Package remote mirrors plan documents to a Postgres database.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("remote document not found")

const schema = `
CREATE TABLE IF NOT EXISTS fitness_documents (
	user_id    TEXT        NOT NULL,
	kind       TEXT        NOT NULL,
	payload    JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	synced_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, kind)
);
`

const pingTimeout = 3 * time.Second

// Document is the remote copy of one plan document.
type Document struct {
	UserID    string
	Kind      string
	Payload   json.RawMessage
	UpdatedAt time.Time
}

// Store writes documents to Postgres through a connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to the database at url and creates the documents table when missing.
func Open(ctx context.Context, url string, logger *slog.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	cfg.MaxConns = 4
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	s := &Store{pool: pool, logger: logger}
	if err = s.ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err = pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to remote store",
		slog.String("host", cfg.ConnConfig.Host), slog.String("database", cfg.ConnConfig.Database))
	return s, nil
}

func (s *Store) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Push upserts doc. A stored copy with a newer UpdatedAt is left untouched.
func (s *Store) Push(ctx context.Context, doc Document) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO fitness_documents (user_id, kind, payload, updated_at)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (user_id, kind) DO UPDATE SET
			payload    = excluded.payload,
			updated_at = excluded.updated_at,
			synced_at  = now()
		WHERE fitness_documents.updated_at <= excluded.updated_at`,
		doc.UserID, doc.Kind, string(doc.Payload), doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", doc.Kind, err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "remote copy is newer",
			slog.String("kind", doc.Kind), slog.Time("updated_at", doc.UpdatedAt))
	}
	return nil
}

// Fetch returns the stored copy of a document or ErrNotFound.
func (s *Store) Fetch(ctx context.Context, userID, kind string) (Document, error) {
	doc := Document{UserID: userID, Kind: kind, Payload: nil, UpdatedAt: time.Time{}}
	var payload string
	err := s.pool.QueryRow(ctx, `
		SELECT payload::text, updated_at FROM fitness_documents WHERE user_id = $1 AND kind = $2`,
		userID, kind).Scan(&payload, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, kind)
	}
	if err != nil {
		return Document{}, fmt.Errorf("fetch %s: %w", kind, err)
	}
	doc.Payload = json.RawMessage(payload)
	return doc, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Package postgres implements store.Store on PostgreSQL via the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users       { return &users{db: s.db} }
func (s *pgStore) Sessions() store.Sessions { return &sessions{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the users and sessions tables when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            user_id    TEXT PRIMARY KEY,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS sessions (
            session_id TEXT PRIMARY KEY,
            user_id    TEXT NOT NULL REFERENCES users(user_id),
            events     TEXT NOT NULL DEFAULT '[]',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions(user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// --- Users ---
type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id) VALUES ($1)
        RETURNING created_at
    `, m.ID)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *m
	out.CreatedAt = created
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, created_at FROM users WHERE user_id=$1
    `, userID)
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
		}
		return nil, err
	}
	return &out, nil
}

// --- Sessions ---
type sessions struct{ db *sql.DB }

func (s *sessions) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	var out model.Session
	row := s.db.QueryRowContext(ctx, `
        SELECT session_id, user_id, events, created_at FROM sessions WHERE session_id=$1
    `, sessionID)
	if err := row.Scan(&out.ID, &out.UserID, &out.Events, &out.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", sessionID, model.ErrNotFound)
		}
		return nil, err
	}
	return &out, nil
}

func (s *sessions) GetByUser(ctx context.Context, userID string) (*model.Session, error) {
	var out model.Session
	row := s.db.QueryRowContext(ctx, `
        SELECT session_id, user_id, events, created_at FROM sessions
        WHERE user_id=$1 ORDER BY created_at ASC LIMIT 1
    `, userID)
	if err := row.Scan(&out.ID, &out.UserID, &out.Events, &out.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session for user %s: %w", userID, model.ErrNotFound)
		}
		return nil, err
	}
	return &out, nil
}

func (s *sessions) Upsert(ctx context.Context, m *model.Session) (*model.Session, error) {
	var created time.Time
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO sessions (session_id, user_id, events)
        VALUES ($1,$2,$3)
        ON CONFLICT (session_id) DO UPDATE SET events = excluded.events
        RETURNING created_at
    `, m.ID, m.UserID, m.Events)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *m
	out.CreatedAt = created
	return &out, nil
}

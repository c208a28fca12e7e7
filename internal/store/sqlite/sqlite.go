// Package sqlite implements store.Store on SQLite via modernc.org/sqlite.
// It is the zero-setup driver for development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and enables WAL
// journal mode and foreign keys.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens the database at path, ensures the schema, and returns the store.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB allows wiring with an existing connection (used by the factory and tests).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users       { return &users{db: s.db} }
func (s *sqliteStore) Sessions() store.Sessions { return &sessions{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the Users and Sessions tables when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS Users (
            UserId    TEXT PRIMARY KEY,
            CreatedAt TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS Sessions (
            SessionId TEXT PRIMARY KEY,
            UserId    TEXT NOT NULL REFERENCES Users(UserId),
            Events    TEXT NOT NULL DEFAULT '[]',
            CreatedAt TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS Sessions_UserId_idx ON Sessions(UserId)`,
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
	now := time.Now().UTC()
	_, err := u.db.ExecContext(ctx, `INSERT INTO Users (UserId, CreatedAt) VALUES (?,?)`, m.ID, now)
	if err != nil {
		return nil, err
	}
	return &model.User{ID: m.ID, CreatedAt: now}, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx, `SELECT UserId, CreatedAt FROM Users WHERE UserId = ?`, userID)
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
	row := s.db.QueryRowContext(ctx, `SELECT SessionId, UserId, Events, CreatedAt FROM Sessions WHERE SessionId = ?`, sessionID)
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
        SELECT SessionId, UserId, Events, CreatedAt FROM Sessions
        WHERE UserId = ? ORDER BY CreatedAt ASC LIMIT 1`, userID)
	if err := row.Scan(&out.ID, &out.UserID, &out.Events, &out.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session for user %s: %w", userID, model.ErrNotFound)
		}
		return nil, err
	}
	return &out, nil
}

func (s *sessions) Upsert(ctx context.Context, m *model.Session) (*model.Session, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO Sessions (SessionId, UserId, Events, CreatedAt)
        VALUES (?,?,?,?)
        ON CONFLICT(SessionId) DO UPDATE SET Events = excluded.Events
    `, m.ID, m.UserID, m.Events, now)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, m.ID)
}

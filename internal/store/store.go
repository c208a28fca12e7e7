// Package store defines the persistence interface for users and sessions.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
package store

import (
	"context"

	"github.com/parleyhq/parley/internal/model"
)

// Store exposes the persistence operations required by the chat service.
type Store interface {
	Users() Users
	Sessions() Sessions
}

// Users provides point lookups and insertion for accounts. Users are never
// mutated after creation and never deleted by this system.
type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
}

// Sessions provides single-row access to conversation rows. GetByUser returns
// the first session for a user; the service assumes at most one active
// session per user. Upsert is the atomic insert-or-replace primitive: when a
// row with the session id exists its events blob is replaced wholesale.
type Sessions interface {
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	GetByUser(ctx context.Context, userID string) (*model.Session, error)
	Upsert(ctx context.Context, s *model.Session) (*model.Session, error)
}

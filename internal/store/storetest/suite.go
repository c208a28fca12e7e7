// Package storetest provides a compliance suite run against every
// store.Store implementation.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()

	// Users
	if _, err := s.Users().Create(ctx, &model.User{ID: userID}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got, err := s.Users().Get(ctx, userID); err != nil || got == nil || got.ID != userID {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if _, err := s.Users().Get(ctx, "no-such-user"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}

	// Sessions: no row yet
	if _, err := s.Sessions().GetByUser(ctx, userID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByUser missing: want ErrNotFound, got %v", err)
	}

	// Upsert inserts
	sessionID := uuid.New().String()
	sess, err := s.Sessions().Upsert(ctx, &model.Session{ID: sessionID, UserID: userID, Events: `[{"author":"u"}]`})
	if err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	if sess.ID != sessionID || sess.UserID != userID {
		t.Fatalf("Upsert insert: got=%+v", sess)
	}

	// Point lookups
	if got, err := s.Sessions().Get(ctx, sessionID); err != nil || got.Events != `[{"author":"u"}]` {
		t.Fatalf("GetSession: got=%+v err=%v", got, err)
	}
	if got, err := s.Sessions().GetByUser(ctx, userID); err != nil || got.ID != sessionID {
		t.Fatalf("GetByUser: got=%+v err=%v", got, err)
	}

	// Upsert replaces the events blob wholesale and keeps the row identity
	if _, err := s.Sessions().Upsert(ctx, &model.Session{ID: sessionID, UserID: userID, Events: `[]`}); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	got, err := s.Sessions().Get(ctx, sessionID)
	if err != nil || got.Events != `[]` {
		t.Fatalf("Upsert replace: got=%+v err=%v", got, err)
	}

	// Unknown session id
	if _, err := s.Sessions().Get(ctx, "no-such-session"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetSession missing: want ErrNotFound, got %v", err)
	}
}

// Package chat implements the session reconciliation core: aligning the
// durable event log in the record store with the agent runtime's volatile
// session state around each message exchange.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parleyhq/parley/internal/event"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/runtime"
	"github.com/parleyhq/parley/internal/store"
)

// Exchange is the result of one message exchange. Events holds the raw events
// produced by this invocation only; the persisted log is the sanitized full
// session history, which may differ.
type Exchange struct {
	Events    []event.Event `json:"events"`
	UserID    string        `json:"userId"`
	SessionID string        `json:"sessionId"`
}

// Reconciler merges persisted conversation history with runtime session state.
// It is safe for concurrent use; each call is one independent reconciliation.
type Reconciler struct {
	store      store.Store
	runtime    runtime.Runtime
	appName    string
	runTimeout time.Duration
	log        zerolog.Logger
}

// NewReconciler constructs the reconciler. runTimeout bounds the runtime
// interaction of a single exchange; zero disables the bound.
func NewReconciler(s store.Store, rt runtime.Runtime, appName string, runTimeout time.Duration, log zerolog.Logger) *Reconciler {
	return &Reconciler{store: s, runtime: rt, appName: appName, runTimeout: runTimeout, log: log}
}

// Exchange runs one message through the runtime for the given user.
//
// An existing session row supplies the session id and prior events (a corrupt
// blob degrades to empty history); otherwise a fresh id is allocated. When
// the runtime has no live session under the key, prior events are injected
// into a newly created one so conversational memory survives runtime
// restarts. After the invocation's event sequence is fully drained, the
// runtime's complete event log is reloaded, sanitized and upserted wholesale
// into the session row.
func (r *Reconciler) Exchange(ctx context.Context, userID string, message json.RawMessage) (*Exchange, error) {
	content, err := event.UserContent(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	sessionID, prior, err := r.loadPrior(ctx, userID)
	if err != nil {
		return nil, err
	}

	if r.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.runTimeout)
		defer cancel()
	}

	key := runtime.Key{AppName: r.appName, UserID: userID, SessionID: sessionID}

	live, err := r.runtime.GetSession(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: runtime session lookup: %v", model.ErrUpstream, err)
	}
	if live == nil {
		// The runtime has forgotten this conversation; recreate it seeded
		// with the persisted history.
		if _, err := r.runtime.CreateSession(ctx, key, prior); err != nil {
			return nil, fmt.Errorf("%w: runtime session create: %v", model.ErrUpstream, err)
		}
	}

	produced, err := r.runtime.Run(ctx, key, content)
	if err != nil {
		return nil, fmt.Errorf("%w: runtime invocation: %v", model.ErrUpstream, err)
	}

	// The reloaded full log, not the produced slice, is the authoritative
	// post-exchange state.
	reloaded, err := r.runtime.GetSession(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: runtime session reload: %v", model.ErrUpstream, err)
	}
	if reloaded != nil {
		blob, err := event.EncodeLog(event.Sanitize(reloaded.Events))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrUpstream, err)
		}
		if _, err := r.store.Sessions().Upsert(ctx, &model.Session{ID: sessionID, UserID: userID, Events: blob}); err != nil {
			return nil, fmt.Errorf("%w: session upsert: %v", model.ErrUpstream, err)
		}
	}

	return &Exchange{Events: produced, UserID: userID, SessionID: sessionID}, nil
}

// History returns the persisted event sequence for a session owned by userID.
// Absent sessions yield ErrNotFound (strict variant); sessions owned by
// another user yield ErrAccessDenied. Stored events are already sanitized.
func (r *Reconciler) History(ctx context.Context, userID, sessionID string) ([]event.Event, error) {
	sess, err := r.store.Sessions().Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: session lookup: %v", model.ErrUpstream, err)
	}
	if sess.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, model.ErrAccessDenied)
	}

	evs, ok := event.DecodeLog([]byte(sess.Events))
	if !ok {
		r.log.Warn().Str("session_id", sessionID).Msg("corrupt events blob; returning empty history")
	}
	if evs == nil {
		evs = []event.Event{}
	}
	return evs, nil
}

// loadPrior resolves the session id and prior events for a user. No session
// row means a fresh conversation: a new opaque id and empty history.
func (r *Reconciler) loadPrior(ctx context.Context, userID string) (string, []event.Event, error) {
	sess, err := r.store.Sessions().GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.New().String(), nil, nil
		}
		return "", nil, fmt.Errorf("%w: session lookup: %v", model.ErrUpstream, err)
	}

	prior, ok := event.DecodeLog([]byte(sess.Events))
	if !ok {
		r.log.Warn().Str("session_id", sess.ID).Msg("corrupt events blob; continuing with empty history")
	}
	return sess.ID, prior, nil
}

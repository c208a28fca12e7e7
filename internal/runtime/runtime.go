// Package runtime abstracts the external conversational-agent runtime. The
// runtime holds its own volatile view of a conversation (the runtime session)
// keyed by application name, user and session id; it is an opaque
// collaborator with a small request/response contract.
package runtime

import (
	"context"

	"github.com/parleyhq/parley/internal/event"
)

// Key identifies a runtime session.
type Key struct {
	AppName   string `json:"appName"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// Session is the runtime's in-memory view of a conversation.
type Session struct {
	Key    Key
	Events []event.Event
}

// Runtime is the contract this service requires from an agent runtime.
//
// GetSession returns (nil, nil) when the runtime has no memory of the key,
// which is distinct from a transport failure. CreateSession registers a fresh runtime
// session whose event log is seeded (replaced, not appended) with the given
// events, so durable history survives runtime eviction or restarts. Run
// submits one user message and blocks until the runtime's produced-event
// sequence is fully drained, returning the events in order.
type Runtime interface {
	GetSession(ctx context.Context, key Key) (*Session, error)
	CreateSession(ctx context.Context, key Key, seed []event.Event) (*Session, error)
	Run(ctx context.Context, key Key, message *event.Content) ([]event.Event, error)
}

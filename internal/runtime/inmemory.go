package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/internal/event"
)

// Responder produces the model-side parts for one user message. It lets the
// in-memory runtime serve development mode and act as a controllable double
// in tests.
type Responder func(message *event.Content) []event.Part

// EchoResponder repeats the text of the incoming message.
func EchoResponder(message *event.Content) []event.Part {
	text := ""
	if message != nil {
		for _, p := range message.Parts {
			text += p.Text
		}
	}
	return []event.Part{{Text: "echo: " + text}}
}

// InMemory is a thread-safe in-process runtime. Sessions are volatile: a
// process restart forgets everything, which is exactly the condition the
// reconciler's seed-on-create path exists for.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[Key]*Session
	respond  Responder
}

// NewInMemory creates an in-memory runtime. A nil responder defaults to echo.
func NewInMemory(respond Responder) *InMemory {
	if respond == nil {
		respond = EchoResponder
	}
	return &InMemory{
		sessions: make(map[Key]*Session),
		respond:  respond,
	}
}

func (m *InMemory) GetSession(_ context.Context, key Key) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[key]
	if !ok {
		return nil, nil
	}
	return m.snapshot(sess), nil
}

func (m *InMemory) CreateSession(_ context.Context, key Key, seed []event.Event) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[key]; exists {
		return nil, fmt.Errorf("runtime session %s already exists", key.SessionID)
	}
	sess := &Session{Key: key, Events: append([]event.Event(nil), seed...)}
	m.sessions[key] = sess
	return m.snapshot(sess), nil
}

// Run appends the user message and the responder's reply to the session's
// event log and returns the events produced by this invocation.
func (m *InMemory) Run(_ context.Context, key Key, message *event.Content) ([]event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[key]
	if !ok {
		return nil, fmt.Errorf("runtime session %s not found", key.SessionID)
	}

	now := float64(time.Now().UnixMilli()) / 1000.0
	invocation := uuid.New().String()
	produced := []event.Event{
		{
			ID:           uuid.New().String(),
			InvocationID: invocation,
			Author:       event.RoleUser,
			Timestamp:    now,
			Content:      message,
		},
		{
			ID:           uuid.New().String(),
			InvocationID: invocation,
			Author:       "assistant",
			Timestamp:    now,
			Content:      &event.Content{Role: event.RoleModel, Parts: m.respond(message)},
			TurnComplete: true,
		},
	}
	sess.Events = append(sess.Events, produced...)
	return append([]event.Event(nil), produced...), nil
}

// Forget drops a session, simulating runtime eviction. Test hook.
func (m *InMemory) Forget(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// HealthPing implements health.HealthPinger; an in-process runtime is always up.
func (m *InMemory) HealthPing(context.Context) error { return nil }

func (m *InMemory) snapshot(sess *Session) *Session {
	return &Session{Key: sess.Key, Events: append([]event.Event(nil), sess.Events...)}
}

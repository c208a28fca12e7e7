package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/event"
)

func userMessage(text string) *event.Content {
	return &event.Content{Role: event.RoleUser, Parts: []event.Part{{Text: text}}}
}

func TestInMemoryUnknownSession(t *testing.T) {
	rt := NewInMemory(nil)
	key := Key{AppName: "parley", UserID: "bob", SessionID: "s1"}

	sess, err := rt.GetSession(t.Context(), key)
	require.NoError(t, err)
	assert.Nil(t, sess, "unknown key must yield nil, nil")

	_, err = rt.Run(t.Context(), key, userMessage("hi"))
	assert.Error(t, err, "run before create must fail")
}

func TestInMemoryCreateSeedsLog(t *testing.T) {
	rt := NewInMemory(nil)
	key := Key{AppName: "parley", UserID: "bob", SessionID: "s1"}
	seed := []event.Event{
		{ID: "e1", Author: "user", Content: userMessage("old question")},
		{ID: "e2", Author: "assistant", Content: &event.Content{Role: event.RoleModel, Parts: []event.Part{{Text: "old answer"}}}},
	}

	created, err := rt.CreateSession(t.Context(), key, seed)
	require.NoError(t, err)
	assert.Len(t, created.Events, 2)

	// Seed replaces the log; fetching shows exactly the seeded events.
	sess, err := rt.GetSession(t.Context(), key)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Len(t, sess.Events, 2)
	assert.Equal(t, "e1", sess.Events[0].ID)

	_, err = rt.CreateSession(t.Context(), key, nil)
	assert.Error(t, err, "duplicate create must fail")
}

func TestInMemoryRunProducesTurn(t *testing.T) {
	rt := NewInMemory(nil)
	key := Key{AppName: "parley", UserID: "bob", SessionID: "s1"}
	_, err := rt.CreateSession(t.Context(), key, nil)
	require.NoError(t, err)

	produced, err := rt.Run(t.Context(), key, userMessage("hello"))
	require.NoError(t, err)
	require.Len(t, produced, 2)
	assert.Equal(t, event.RoleUser, produced[0].Author)
	assert.Equal(t, "hello", produced[0].Content.Parts[0].Text)
	assert.Equal(t, "assistant", produced[1].Author)
	assert.True(t, produced[1].TurnComplete)
	assert.Equal(t, "echo: hello", produced[1].Content.Parts[0].Text)
	assert.Equal(t, produced[0].InvocationID, produced[1].InvocationID)
	assert.NotEmpty(t, produced[0].ID)

	// The session log accumulates across runs.
	_, err = rt.Run(t.Context(), key, userMessage("again"))
	require.NoError(t, err)
	sess, err := rt.GetSession(t.Context(), key)
	require.NoError(t, err)
	assert.Len(t, sess.Events, 4)
}

func TestInMemoryCustomResponder(t *testing.T) {
	rt := NewInMemory(func(*event.Content) []event.Part {
		return []event.Part{{Text: "canned"}}
	})
	key := Key{AppName: "parley", UserID: "bob", SessionID: "s1"}
	_, err := rt.CreateSession(t.Context(), key, nil)
	require.NoError(t, err)

	produced, err := rt.Run(t.Context(), key, userMessage("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "canned", produced[1].Content.Parts[0].Text)
}

func TestInMemoryForget(t *testing.T) {
	rt := NewInMemory(nil)
	key := Key{AppName: "parley", UserID: "bob", SessionID: "s1"}
	_, err := rt.CreateSession(t.Context(), key, nil)
	require.NoError(t, err)

	rt.Forget(key)

	sess, err := rt.GetSession(t.Context(), key)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestInMemorySnapshotIsolation(t *testing.T) {
	rt := NewInMemory(nil)
	key := Key{AppName: "parley", UserID: "bob", SessionID: "s1"}
	_, err := rt.CreateSession(t.Context(), key, []event.Event{{ID: "e1"}})
	require.NoError(t, err)

	sess, err := rt.GetSession(t.Context(), key)
	require.NoError(t, err)
	sess.Events[0].ID = "mutated"

	again, err := rt.GetSession(t.Context(), key)
	require.NoError(t, err)
	assert.Equal(t, "e1", again.Events[0].ID)
}

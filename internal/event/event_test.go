package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_DropsEmptyPartMarkers(t *testing.T) {
	evs := []Event{
		{ID: "1", Content: &Content{Role: RoleUser, Parts: []Part{{Text: "hi"}}}},
		{ID: "2", Content: &Content{Role: "internal", Parts: []Part{}}},
		{ID: "3", Content: nil},
	}

	out := Sanitize(evs)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID, "events without content pass through")
}

func TestSanitize_ScrubsBookkeepingFields(t *testing.T) {
	evs := []Event{{
		ID:            "1",
		Author:        "assistant",
		Timestamp:     1700000000.25,
		Content:       &Content{Role: RoleModel, Parts: []Part{{Text: "hello"}}},
		Actions:       json.RawMessage(`{"stateDelta":{}}`),
		UsageMetadata: json.RawMessage(`{"totalTokenCount":42}`),
	}}

	out := Sanitize(evs)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Actions)
	assert.Nil(t, out[0].UsageMetadata)
	assert.Equal(t, "assistant", out[0].Author)
	assert.Equal(t, 1700000000.25, out[0].Timestamp)
	assert.Equal(t, "hello", out[0].Content.Parts[0].Text)

	// input is untouched
	assert.NotNil(t, evs[0].Actions)
}

func TestSanitize_Idempotent(t *testing.T) {
	evs := []Event{
		{ID: "1", Content: &Content{Parts: []Part{{Text: "a"}}}, Actions: json.RawMessage(`{}`)},
		{ID: "2", Content: &Content{Parts: []Part{}}},
		{ID: "3", Content: &Content{Parts: []Part{{FunctionCall: json.RawMessage(`{"name":"f"}`)}}}},
	}
	once := Sanitize(evs)
	twice := Sanitize(once)
	assert.Equal(t, once, twice)
}

func TestDecodeLog_CorruptBlobDegradesToEmpty(t *testing.T) {
	evs, ok := DecodeLog([]byte(`{"not":"an array"`))
	assert.False(t, ok)
	assert.Nil(t, evs)

	evs, ok = DecodeLog(nil)
	assert.True(t, ok)
	assert.Nil(t, evs)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []Event{
		{ID: "1", Author: "user", Content: &Content{Role: RoleUser, Parts: []Part{{Text: "hi"}}}},
		{ID: "2", Author: "assistant", TurnComplete: true, Content: &Content{Role: RoleModel, Parts: []Part{{Text: "hello"}}}},
	}
	blob, err := EncodeLog(in)
	require.NoError(t, err)

	out, ok := DecodeLog([]byte(blob))
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestEncodeLog_NilEncodesAsEmptyArray(t *testing.T) {
	blob, err := EncodeLog(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", blob)
}

func TestUserContent(t *testing.T) {
	c, err := UserContent(json.RawMessage(`"hello"`))
	require.NoError(t, err)
	assert.Equal(t, RoleUser, c.Role)
	require.Len(t, c.Parts, 1)
	assert.Equal(t, "hello", c.Parts[0].Text)

	c, err = UserContent(json.RawMessage(`{"role":"user","parts":[{"text":"hi"},{"text":"there"}]}`))
	require.NoError(t, err)
	assert.Len(t, c.Parts, 2)

	_, err = UserContent(json.RawMessage(`42`))
	assert.Error(t, err)
}

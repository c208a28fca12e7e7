// Package event defines the typed schema for agent runtime events and the
// codec for the persisted event log.
package event

import (
	"encoding/json"
	"fmt"
)

// Role values produced by the supported runtime. Runtime-internal markers may
// carry other roles; they pass through sanitization untouched unless their
// parts are empty.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is one fragment of a content block: free text or a structured
// function-call/response marker. The structured payloads are kept opaque;
// this service never interprets them.
type Part struct {
	Text             string          `json:"text,omitempty"`
	FunctionCall     json.RawMessage `json:"functionCall,omitempty"`
	FunctionResponse json.RawMessage `json:"functionResponse,omitempty"`
}

// Content is the user-visible body of an event.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Event is one turn or sub-turn of a conversation. The field set is an
// explicit allow-list: anything the runtime produces outside of it is not
// representable and therefore cannot leak into persisted history.
// Actions and UsageMetadata are runtime bookkeeping; they survive decoding so
// the raw invocation response can be returned to callers, but Sanitize strips
// them before persistence.
type Event struct {
	ID            string          `json:"id,omitempty"`
	InvocationID  string          `json:"invocationId,omitempty"`
	Author        string          `json:"author,omitempty"`
	Branch        string          `json:"branch,omitempty"`
	Timestamp     float64         `json:"timestamp,omitempty"`
	Content       *Content        `json:"content,omitempty"`
	Partial       bool            `json:"partial,omitempty"`
	TurnComplete  bool            `json:"turnComplete,omitempty"`
	Actions       json.RawMessage `json:"actions,omitempty"`
	UsageMetadata json.RawMessage `json:"usageMetadata,omitempty"`
}

// DecodeLog deserializes a persisted events blob. A corrupt blob degrades to
// an empty sequence; the boolean reports whether the blob was parseable so
// callers can log the recovery.
func DecodeLog(blob []byte) ([]Event, bool) {
	if len(blob) == 0 {
		return nil, true
	}
	var evs []Event
	if err := json.Unmarshal(blob, &evs); err != nil {
		return nil, false
	}
	return evs, true
}

// EncodeLog serializes an event sequence for storage. A nil sequence encodes
// as an empty JSON array so the stored blob always parses.
func EncodeLog(evs []Event) (string, error) {
	if evs == nil {
		evs = []Event{}
	}
	b, err := json.Marshal(evs)
	if err != nil {
		return "", fmt.Errorf("encode event log: %w", err)
	}
	return string(b), nil
}

// UserContent builds the content block for an inbound user message. The raw
// message may be a bare string or a full content object; anything else is
// rejected.
func UserContent(raw json.RawMessage) (*Content, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return &Content{Role: RoleUser, Parts: []Part{{Text: text}}}, nil
	}
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("message must be a string or content object: %w", err)
	}
	if c.Role == "" {
		c.Role = RoleUser
	}
	return &c, nil
}

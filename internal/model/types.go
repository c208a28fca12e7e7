package model

import "time"

// User is an account identified solely by an opaque handle. No secret is
// stored; the handle itself is the credential.
type User struct {
	ID        string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is one durable conversation. Events holds the serialized ordered
// event log as an opaque JSON text blob; it is replaced wholesale on every
// exchange. At most one session row per user is actively used.
type Session struct {
	ID        string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Events    string    `json:"events"`
	CreatedAt time.Time `json:"createdAt"`
}

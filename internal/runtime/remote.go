package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/parleyhq/parley/internal/event"
)

// Remote talks to an agent runtime exposed over HTTP. Session state lives in
// the runtime process; this client only moves events back and forth.
type Remote struct {
	client *resty.Client
}

// NewRemote creates a client for the runtime at baseURL. timeout bounds every
// call, including the blocking drain of a run's event sequence.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Remote{client: c}
}

type remoteSession struct {
	AppName   string        `json:"appName"`
	UserID    string        `json:"userId"`
	SessionID string        `json:"id"`
	Events    []event.Event `json:"events"`
}

func sessionPath(key Key) string {
	return fmt.Sprintf("/apps/%s/users/%s/sessions/%s", key.AppName, key.UserID, key.SessionID)
}

// GetSession fetches the runtime's live session. A 404 means the runtime has
// no memory of the key and yields (nil, nil).
func (r *Remote) GetSession(ctx context.Context, key Key) (*Session, error) {
	resp, err := r.client.R().SetContext(ctx).Get(sessionPath(key))
	if err != nil {
		return nil, fmt.Errorf("runtime get session: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("runtime get session: status %d: %s", resp.StatusCode(), resp.String())
	}
	var rs remoteSession
	if err := json.Unmarshal(resp.Body(), &rs); err != nil {
		return nil, fmt.Errorf("runtime get session: decode: %w", err)
	}
	return &Session{Key: key, Events: rs.Events}, nil
}

// CreateSession registers a new runtime session; seed replaces its event log
// before any message is processed.
func (r *Remote) CreateSession(ctx context.Context, key Key, seed []event.Event) (*Session, error) {
	body := map[string]interface{}{}
	if len(seed) > 0 {
		body["events"] = seed
	}
	resp, err := r.client.R().SetContext(ctx).SetBody(body).Post(sessionPath(key))
	if err != nil {
		return nil, fmt.Errorf("runtime create session: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("runtime create session: status %d: %s", resp.StatusCode(), resp.String())
	}
	return &Session{Key: key, Events: seed}, nil
}

type runRequest struct {
	AppName    string         `json:"appName"`
	UserID     string         `json:"userId"`
	SessionID  string         `json:"sessionId"`
	NewMessage *event.Content `json:"newMessage"`
}

// Run submits the message and drains the produced events. The runtime replies
// with the complete ordered sequence once the invocation finishes.
func (r *Remote) Run(ctx context.Context, key Key, message *event.Content) ([]event.Event, error) {
	req := runRequest{AppName: key.AppName, UserID: key.UserID, SessionID: key.SessionID, NewMessage: message}
	resp, err := r.client.R().SetContext(ctx).SetBody(&req).Post("/run")
	if err != nil {
		return nil, fmt.Errorf("runtime run: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("runtime run: status %d: %s", resp.StatusCode(), resp.String())
	}
	var evs []event.Event
	if err := json.Unmarshal(resp.Body(), &evs); err != nil {
		return nil, fmt.Errorf("runtime run: decode: %w", err)
	}
	return evs, nil
}

// HealthPing implements health.HealthPinger against the runtime's health endpoint.
func (r *Remote) HealthPing(ctx context.Context) error {
	resp, err := r.client.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("runtime health: status %d", resp.StatusCode())
	}
	return nil
}

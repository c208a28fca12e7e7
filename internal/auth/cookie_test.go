package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/model"
)

type fakeUsers struct {
	known map[string]bool
	err   error
}

func (f *fakeUsers) Create(ctx context.Context, u *model.User) (*model.User, error) {
	return u, nil
}

func (f *fakeUsers) Get(ctx context.Context, userID string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.known[userID] {
		return nil, model.ErrNotFound
	}
	return &model.User{ID: userID}, nil
}

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: value})
	}
	return r
}

func TestReadIdentity(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&fakeUsers{known: map[string]bool{"bob": true}}, false)

	id, ok := m.ReadIdentity(ctx, requestWithCookie("bob"))
	require.True(t, ok)
	assert.Equal(t, "bob", id)

	_, ok = m.ReadIdentity(ctx, requestWithCookie(""))
	assert.False(t, ok, "missing cookie")

	_, ok = m.ReadIdentity(ctx, requestWithCookie("alice"))
	assert.False(t, ok, "unknown user")
}

func TestReadIdentity_StoreFailureIsNotAuthenticated(t *testing.T) {
	m := NewManager(&fakeUsers{err: errors.New("db down")}, false)
	_, ok := m.ReadIdentity(context.Background(), requestWithCookie("bob"))
	assert.False(t, ok)
}

func TestWriteIdentity_CookieAttributes(t *testing.T) {
	for _, secure := range []bool{false, true} {
		w := httptest.NewRecorder()
		NewManager(&fakeUsers{}, secure).WriteIdentity(w, "bob")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, CookieName, c.Name)
		assert.Equal(t, "bob", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, CookieMaxAge, c.MaxAge)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, secure, c.Secure)
	}
}

func TestClearIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	NewManager(&fakeUsers{}, false).ClearIdentity(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Negative(t, cookies[0].MaxAge)
}

package session_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/session"
)

type fakeProfileAPI struct {
	user  client.User
	err   error
	calls int
}

func (f *fakeProfileAPI) Profile(context.Context) (client.User, error) {
	f.calls++
	if f.err != nil {
		return client.User{}, f.err
	}
	return f.user, nil
}

func authError(status int) error {
	return &client.APIError{StatusCode: status, Method: "GET", Endpoint: "/api/auth/me"}
}

func TestLoginLogout(t *testing.T) {
	store := session.NewStore()

	var notifications []session.Snapshot
	store.Subscribe(func(snap session.Snapshot) {
		notifications = append(notifications, snap)
	})

	store.Login("token-1", client.User{ID: "u1", Email: "ops@acme.test"})

	assert.Equal(t, "token-1", store.Token())
	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)

	store.Logout()
	assert.Empty(t, store.Token())
	_, ok = store.CurrentUser()
	assert.False(t, ok)

	require.Len(t, notifications, 2)
	assert.True(t, notifications[0].Authenticated())
	assert.False(t, notifications[1].Authenticated())
}

func TestBootstrapFetchesProfile(t *testing.T) {
	store := restoredStore("token-2")
	api := &fakeProfileAPI{user: client.User{ID: "u2", Email: "ops@acme.test"}}

	require.NoError(t, store.Bootstrap(context.Background(), api))
	assert.Equal(t, 1, api.calls)

	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u2", user.ID)
}

func TestBootstrapNoToken(t *testing.T) {
	store := session.NewStore()
	api := &fakeProfileAPI{}

	require.NoError(t, store.Bootstrap(context.Background(), api))
	assert.Zero(t, api.calls)
}

func TestBootstrapClearsSessionOnAuthError(t *testing.T) {
	store := restoredStore("stale-token")
	api := &fakeProfileAPI{err: authError(http.StatusUnauthorized)}

	err := store.Bootstrap(context.Background(), api)
	require.Error(t, err)
	assert.Empty(t, store.Token())
}

func TestBootstrapKeepsSessionOnTransientError(t *testing.T) {
	store := restoredStore("good-token")
	api := &fakeProfileAPI{err: errors.New("connection refused")}

	err := store.Bootstrap(context.Background(), api)
	require.Error(t, err)
	assert.Equal(t, "good-token", store.Token())
}

func TestTokenExpiry(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, expiry)

	got, err := session.TokenExpiry(token)
	require.NoError(t, err)
	assert.True(t, got.Equal(expiry), "expiry = %v, want %v", got, expiry)

	assert.False(t, session.TokenExpired(token, time.Now()))
	assert.True(t, session.TokenExpired(token, expiry.Add(time.Second)))
	assert.True(t, session.TokenExpired("not-a-jwt", time.Now()))
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// restoredStore mimics a process restart where the token survived but the
// profile cache did not.
func restoredStore(token string) *session.Store {
	store := session.NewStore()
	store.Restore(token)
	return store
}

// Package session holds the process-wide authenticated session: token plus
// current-user profile. State is read by many components and mutated only
// by the login, logout and bootstrap flows.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-backoffice/pkg/client"
)

// Listener is notified after every session mutation.
type Listener func(Snapshot)

// Snapshot is an immutable view of the session state.
type Snapshot struct {
	Token string
	User  *client.User
}

// Authenticated reports whether a token is present.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// Store owns the session state. The zero value is not usable; construct
// with NewStore.
type Store struct {
	mu        sync.RWMutex
	token     string
	user      *client.User
	listeners []Listener
}

func NewStore() *Store {
	return &Store{}
}

// Login installs a token and profile, replacing any previous session.
func (s *Store) Login(token string, user client.User) {
	s.mu.Lock()
	s.token = token
	copied := user
	s.user = &copied
	s.mu.Unlock()
	s.notify()
}

// Restore installs a token with no profile, e.g. one read back from
// persistent storage at process start. Follow with Bootstrap to refetch
// the profile.
func (s *Store) Restore(token string) {
	s.mu.Lock()
	s.token = token
	s.user = nil
	s.mu.Unlock()
	s.notify()
}

// Logout clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.notify()
}

// Token returns the current bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns a copy of the cached profile.
func (s *Store) CurrentUser() (client.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return client.User{}, false
	}
	return *s.user, true
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Token: s.token}
	if s.user != nil {
		copied := *s.user
		snap.User = &copied
	}
	return snap
}

// Subscribe registers a listener called after every mutation. Listeners
// cannot be removed; subscribe once during wiring.
func (s *Store) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

func (s *Store) notify() {
	snap := s.Snapshot()
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, listener := range listeners {
		listener(snap)
	}
}

// profileFetcher is the slice of the API client Bootstrap needs.
type profileFetcher interface {
	Profile(ctx context.Context) (client.User, error)
}

// Bootstrap restores the profile for a session that has a token but no
// cached user, typically at process start. An authorization failure from
// this specific call invalidates the session; any other error leaves the
// session untouched so a transient outage does not log the user out.
func (s *Store) Bootstrap(ctx context.Context, api profileFetcher) error {
	s.mu.RLock()
	token, user := s.token, s.user
	s.mu.RUnlock()

	if token == "" || user != nil {
		return nil
	}

	profile, err := api.Profile(ctx)
	if err != nil {
		if client.IsAuthError(err) {
			s.Logout()
		}
		return fmt.Errorf("session: bootstrap profile: %w", err)
	}

	s.mu.Lock()
	copied := profile
	s.user = &copied
	s.mu.Unlock()
	s.notify()
	return nil
}

// TokenExpiry extracts the expiry claim from a JWT without verifying its
// signature; the server stays the authority, this only informs a local
// "session about to expire" check.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("session: parse token: %w", err)
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, fmt.Errorf("session: token has no expiry claim")
	}
	return expiry.Time, nil
}

// TokenExpired reports whether the token's expiry claim is in the past. A
// token without a readable expiry counts as expired.
func TokenExpired(token string, now time.Time) bool {
	expiry, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	return !expiry.After(now)
}

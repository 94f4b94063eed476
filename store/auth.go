// ABOUTME: Session store: login, logout and the persisted auth flag
// ABOUTME: Wrong credentials are a normal outcome, not an error
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/cache"
	"github.com/nordflytt/flyttcrm/models"
)

type AuthStore struct {
	mu            sync.RWMutex
	client        *api.Client
	cache         *cache.Store
	user          *models.User
	authenticated bool
	token         string
	loading       bool
}

type authSnapshot struct {
	User          *models.User `json:"user,omitempty"`
	Authenticated bool         `json:"authenticated"`
}

func NewAuthStore(client *api.Client, c *cache.Store) *AuthStore {
	s := &AuthStore{client: client, cache: c}
	s.rehydrate()
	return s
}

func (s *AuthStore) rehydrate() {
	if s.cache == nil {
		return
	}
	var snap authSnapshot
	switch err := s.cache.Load(authKey, &snap); {
	case err == nil:
		s.user = snap.User
		s.authenticated = snap.Authenticated && snap.User != nil
	case errors.Is(err, cache.ErrNotFound):
	case errors.Is(err, cache.ErrSnapshotVersion):
		log.Printf("warning: discarding stale %s snapshot", authKey)
		if err := s.cache.Delete(authKey); err != nil {
			log.Printf("warning: failed to delete stale snapshot %s: %v", authKey, err)
		}
	default:
		log.Printf("warning: failed to load %s snapshot: %v", authKey, err)
	}
}

func (s *AuthStore) persistLocked() {
	if s.cache == nil {
		return
	}
	snap := authSnapshot{User: s.user, Authenticated: s.authenticated}
	if err := s.cache.Save(authKey, snap); err != nil {
		log.Printf("warning: failed to persist %s: %v", authKey, err)
	}
}

// Login exchanges credentials for a session. Rejected credentials return
// (false, nil); transport and decode failures return an error.
func (s *AuthStore) Login(ctx context.Context, email, password string) (bool, error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	user, token, err := s.client.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized {
			return false, nil
		}
		return false, fmt.Errorf("login failed: %w", err)
	}
	s.user = &user
	s.authenticated = true
	s.token = token
	s.persistLocked()
	return true, nil
}

// Logout clears the session locally.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.token = ""
	s.persistLocked()
}

// CheckAuth returns the current user and whether a session is active.
func (s *AuthStore) CheckAuth() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Token returns the session token from the last successful login. Tokens are
// never persisted; a fresh process logs in again.
func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

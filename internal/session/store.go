// Package session owns the authenticated session: the bearer token, the
// current user, and their persistence across runs. It is the only writer of
// auth state; every other component reads the token through api.TokenSource.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"fleetdesk/internal/api"
	"fleetdesk/internal/localstore"
	"fleetdesk/internal/models"
)

// Store holds the in-memory session and mirrors it to the local store.
type Store struct {
	local  *localstore.Store
	client *api.Client
	log    *slog.Logger

	mu       sync.RWMutex
	token    string
	user     *models.User
	remember bool
	loading  bool
}

// New builds an empty, not-yet-initialized session store.
func New(local *localstore.Store, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{local: local, log: log, loading: true}
}

// AttachClient wires the API client in and registers the central 401
// teardown: any auth-expired response anywhere clears the session.
func (s *Store) AttachClient(c *api.Client) {
	s.client = c
	c.OnAuthExpired(s.expire)
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, or nil when unauthenticated.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading reports whether Initialize has finished. Protected screens block
// on this so unauthenticated content never flashes.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Authenticated reports whether a user and token are present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// IsAdmin reports whether the current user is an admin.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == models.RoleAdmin
}

// IsAdminOrOfficer reports whether the current user holds either
// privileged role.
func (s *Store) IsAdminOrOfficer() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && (s.user.Role == models.RoleAdmin || s.user.Role == models.RoleOfficer)
}

// Remember reports the advisory remember-me flag. It never drives any
// client-side expiry; it is only echoed back to the login endpoint.
func (s *Store) Remember() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remember
}

// profileResponse is the profile-verification envelope.
type profileResponse struct {
	User models.User `json:"user"`
}

// Initialize restores a persisted session. A stored token is verified
// against the profile endpoint; success refreshes the user record, any
// failure wipes the persisted state and leaves the session empty. Callers
// must wait for Initialize before rendering protected screens.
func (s *Store) Initialize(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	creds, err := s.local.LoadCredentials()
	if err != nil {
		return err
	}
	if creds == nil {
		return nil
	}

	s.mu.Lock()
	s.token = creds.Token
	s.remember = creds.Remember
	s.mu.Unlock()

	var resp profileResponse
	if err := s.client.Do(ctx, http.MethodGet, "api/auth/profile", nil, &resp); err != nil {
		// Stale or rejected token: clear everything. The 401 hook may have
		// already done part of this; clearing twice is harmless.
		s.log.Info("persisted session rejected, clearing", "err", err)
		s.clear()
		return nil
	}

	userJSON, _ := json.Marshal(resp.User)

	s.mu.Lock()
	s.user = &resp.User
	s.mu.Unlock()

	if err := s.local.SaveCredentials(creds.Token, string(userJSON), creds.Remember); err != nil {
		s.log.Warn("persist refreshed user", "err", err)
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"rememberMe"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

// Login authenticates against the backend. On success the session is
// populated and persisted and ok is true. On failure ok is false and msg
// carries the server-provided (or transport) message; Login never returns
// an error to its caller.
func (s *Store) Login(ctx context.Context, username, password string, remember bool) (ok bool, msg string) {
	var resp loginResponse
	err := s.client.DoPublic(ctx, http.MethodPost, "api/auth/login",
		loginRequest{Username: username, Password: password, Remember: remember}, &resp)
	if err != nil {
		s.log.Warn("login transport failure", "err", err)
		return false, "Network error. Please check your connection."
	}
	if !resp.Success {
		if resp.Message == "" {
			resp.Message = "Invalid username or password."
		}
		return false, resp.Message
	}

	userJSON, _ := json.Marshal(resp.User)

	s.mu.Lock()
	s.token = resp.Token
	s.user = &resp.User
	s.remember = remember
	s.mu.Unlock()

	if err := s.local.SaveCredentials(resp.Token, string(userJSON), remember); err != nil {
		s.log.Warn("persist credentials", "err", err)
	}
	s.log.Info("logged in", "user", resp.User.Username, "role", resp.User.Role)
	return true, ""
}

// Logout notifies the server best-effort, then unconditionally clears the
// session from memory and disk.
func (s *Store) Logout(ctx context.Context) {
	if s.Token() != "" {
		if err := s.client.Do(ctx, http.MethodPost, "api/auth/logout", nil, nil); err != nil {
			s.log.Info("logout notification failed", "err", err)
		}
	}
	s.clear()
}

// UpdateUser replaces the cached user without a round trip. Used after a
// profile edit whose response already carries the updated record.
func (s *Store) UpdateUser(u models.User) {
	userJSON, _ := json.Marshal(u)

	s.mu.Lock()
	s.user = &u
	token, remember := s.token, s.remember
	s.mu.Unlock()

	if err := s.local.SaveCredentials(token, string(userJSON), remember); err != nil {
		s.log.Warn("persist updated user", "err", err)
	}
}

// expire is the 401 hook: tear down locally without a server round trip.
func (s *Store) expire() {
	s.log.Info("session expired (401), clearing")
	s.clear()
}

func (s *Store) clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.remember = false
	s.mu.Unlock()

	if err := s.local.ClearCredentials(); err != nil {
		s.log.Warn("clear persisted credentials", "err", err)
	}
}

// Package auth holds the client session: the bearer credential, the user
// identity, and the authenticated flag every remote call is gated on.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Waggeh13/Perfume/domain"
	"github.com/Waggeh13/Perfume/sessionstore"
)

// Fixed persistence keys for this project's session data
const (
	TokenKey    = "perfume_auth_token"
	UserDataKey = "perfume_user_data"
	UserTypeKey = "perfume_user_type"
)

// SessionTypeUser is the default session-type tag for shoppers.
const SessionTypeUser = "user"

const storageTimeout = time.Second

// Session is the source of truth for "is a request authenticated". The
// token is an opaque bearer credential; decoding and expiry are the issuing
// collaborator's concern, the session only stores and attaches it.
type Session struct {
	mu            sync.RWMutex
	store         sessionstore.Store
	logger        *slog.Logger
	token         string
	identity      domain.Identity
	sessionType   string
	authenticated bool

	onChange       []func(authenticated bool)
	onForcedLogout func()
}

// NewSession builds a session backed by the given store and restores any
// persisted state. Malformed persisted entries are discarded and the session
// starts anonymous; bootstrap never fails.
func NewSession(store sessionstore.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{store: store, logger: logger}
	s.bootstrap()
	return s
}

func (s *Session) bootstrap() {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	token, errToken := s.store.Get(ctx, TokenKey)
	userData, errUser := s.store.Get(ctx, UserDataKey)
	sessionType, errType := s.store.Get(ctx, UserTypeKey)

	for _, err := range []error{errToken, errUser, errType} {
		if err != nil {
			if !errors.Is(err, sessionstore.ErrNotFound) {
				s.logger.Warn("session bootstrap: storage read failed", "error", err)
			}
			return
		}
	}

	// Literal "undefined" leaks out of buggy web clients that shared this
	// storage; treat it like an absent entry.
	if token == "" || token == "undefined" || userData == "undefined" {
		return
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(userData), &identity); err != nil {
		s.logger.Warn("session bootstrap: discarding malformed identity", "error", err)
		s.clearStored(ctx)
		return
	}

	s.token = token
	s.identity = identity
	s.sessionType = sessionType
	s.authenticated = true
}

// Login stores the credential and identity for the session and marks it
// authenticated. Persistence failures are logged, not propagated: the
// session still works in memory for the rest of the run.
func (s *Session) Login(ctx context.Context, token string, identity domain.Identity, sessionType string) {
	if sessionType == "" {
		sessionType = SessionTypeUser
	}

	identityJSON, err := json.Marshal(identity)
	if err != nil {
		s.logger.Error("login: marshal identity failed", "error", err)
		identityJSON = []byte("{}")
	}
	if errSet := s.store.Set(ctx, TokenKey, token); errSet != nil {
		s.logger.Warn("login: persist token failed", "error", errSet)
	}
	if errSet := s.store.Set(ctx, UserDataKey, string(identityJSON)); errSet != nil {
		s.logger.Warn("login: persist identity failed", "error", errSet)
	}
	if errSet := s.store.Set(ctx, UserTypeKey, sessionType); errSet != nil {
		s.logger.Warn("login: persist session type failed", "error", errSet)
	}

	s.mu.Lock()
	s.token = token
	s.identity = identity
	s.sessionType = sessionType
	s.authenticated = true
	listeners := append([]func(bool){}, s.onChange...)
	s.mu.Unlock()

	s.notify(listeners, true)
}

// Logout clears the stored credential and marks the session anonymous.
// Subscribers are notified synchronously, so a pending cart push is
// cancelled before Logout returns.
func (s *Session) Logout(ctx context.Context) {
	s.clearStored(ctx)

	s.mu.Lock()
	s.token = ""
	s.identity = domain.Identity{}
	s.sessionType = ""
	s.authenticated = false
	listeners := append([]func(bool){}, s.onChange...)
	s.mu.Unlock()

	s.notify(listeners, false)
}

func (s *Session) clearStored(ctx context.Context) {
	if err := s.store.Delete(ctx, TokenKey, UserDataKey, UserTypeKey); err != nil {
		s.logger.Warn("clearing stored session failed", "error", err)
	}
}

// IsAuthenticated reports whether a bearer credential is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Token returns the current bearer credential, empty when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the identity payload stored at login.
func (s *Session) Identity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// SessionType returns the session-type tag ("user" for shoppers).
func (s *Session) SessionType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionType
}

// Authorize attaches the bearer credential to an outgoing request when one
// is held; callers get a plain JSON request otherwise.
func (s *Session) Authorize(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if token := s.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// HandleUnauthorized is the single place token invalidation is handled. On
// a 401 it forces logout and reports that the caller should redirect to the
// login entry point.
func (s *Session) HandleUnauthorized(ctx context.Context, status int) bool {
	if status != http.StatusUnauthorized {
		return false
	}

	s.logger.Info("authorization rejected, clearing session", "status", status)
	s.Logout(ctx)

	s.mu.RLock()
	redirect := s.onForcedLogout
	s.mu.RUnlock()
	if redirect != nil {
		redirect()
	}
	return true
}

// OnChange registers a listener for authenticated-state transitions. The
// sync layer uses this to start a pull on login and cancel pending work on
// logout.
func (s *Session) OnChange(fn func(authenticated bool)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// OnForcedLogout registers the redirect signal raised by HandleUnauthorized.
func (s *Session) OnForcedLogout(fn func()) {
	s.mu.Lock()
	s.onForcedLogout = fn
	s.mu.Unlock()
}

func (s *Session) notify(listeners []func(bool), authenticated bool) {
	for _, fn := range listeners {
		fn(authenticated)
	}
}

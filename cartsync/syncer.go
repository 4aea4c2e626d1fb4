// Package cartsync reconciles the local cart with the remote cart API.
//
// The sync triggers form an explicit state machine:
//
//	Anonymous --login--> Pulling --pull resolves--> AuthenticatedIdle
//	AuthenticatedIdle --cart mutation--> PushPending --debounce--> push fires --> AuthenticatedIdle
//	any state --logout--> Anonymous (pending debounce cancelled)
//
// The server is advisory: a failed pull or push leaves local state
// authoritative, and a pull resolving after a later local mutation is
// discarded (last local intent wins over late-arriving remote state).
package cartsync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Waggeh13/Perfume/cart"
	"github.com/Waggeh13/Perfume/domain"
	"golang.org/x/sync/singleflight"
)

// State is the syncer's position in the trigger state machine.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticatedIdle
	StatePulling
	StatePushPending
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticatedIdle:
		return "authenticated-idle"
	case StatePulling:
		return "pulling"
	case StatePushPending:
		return "push-pending"
	}
	return "unknown"
}

// DefaultDebounce is the trailing-edge quiet period before a push fires, so
// bursts of quantity changes coalesce into one network call.
const DefaultDebounce = time.Second

const callTimeout = 10 * time.Second

// Backend is the slice of the API client the syncer needs.
type Backend interface {
	FetchCart(ctx context.Context) ([]domain.LineItem, error)
	SyncCart(ctx context.Context, items []domain.LineItem) error
}

// Syncer drives cart pull/push against the backend. It subscribes to cart
// mutations and auth transitions; the stores themselves know nothing about
// the network.
type Syncer struct {
	mu    sync.Mutex
	state State
	timer *time.Timer

	// epoch advances on every local mutation and auth transition. A pull
	// or push deadline that resolves against an older epoch is void, which
	// is what makes "cancel pending push on logout" and "supersede stale
	// pull" testable rules instead of timer accidents.
	epoch uint64

	backend  Backend
	cart     *cart.Store
	debounce time.Duration
	sfg      singleflight.Group
	logger   *slog.Logger
}

// New builds a syncer over the given cart store and registers for its
// mutations. Debounce <= 0 selects DefaultDebounce.
func New(backend Backend, cartStore *cart.Store, debounce time.Duration, logger *slog.Logger) *Syncer {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Syncer{
		backend:  backend,
		cart:     cartStore,
		debounce: debounce,
		logger:   logger,
	}
	cartStore.OnChange(s.onCartMutation)
	return s
}

// State returns the current trigger state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HandleAuthChange is the auth session subscription. Login starts a pull;
// logout synchronously cancels any pending debounce so no stale push
// executes under a cleared session.
func (s *Syncer) HandleAuthChange(authenticated bool) {
	if authenticated {
		s.startPull()
	} else {
		s.handleLogout()
	}
}

func (s *Syncer) startPull() {
	s.mu.Lock()
	s.cancelTimerLocked()
	s.epoch++
	epoch := s.epoch
	s.state = StatePulling
	s.mu.Unlock()

	go s.pull(epoch)
}

// pull fetches remote cart state and, if nothing local superseded it while
// in flight, replaces the cart wholesale. Concurrent pulls coalesce.
func (s *Syncer) pull(epoch uint64) {
	v, err, _ := s.sfg.Do("pull", func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return s.backend.FetchCart(ctx)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		// Logged in again, logged out, or mutated locally since the pull
		// was requested: the result no longer reflects anyone's intent.
		s.logger.Debug("discarding superseded cart pull")
		return
	}
	s.state = StateAuthenticatedIdle

	if err != nil {
		// Local-first: the existing cart stays untouched.
		s.logger.Warn("cart pull failed, keeping local cart", "error", err)
		return
	}
	s.cart.Replace(v.([]domain.LineItem))
}

// onCartMutation arms (or re-arms) the trailing-edge debounce while
// authenticated. Each mutation supersedes any in-flight pull.
func (s *Syncer) onCartMutation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnonymous {
		return
	}

	s.epoch++
	epoch := s.epoch
	s.state = StatePushPending
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.firePush(epoch) })
}

// firePush runs at the debounce deadline and sends the cart state read at
// fire time: intermediate states between two mutations are never
// transmitted.
func (s *Syncer) firePush(epoch uint64) {
	s.mu.Lock()
	if s.epoch != epoch || s.state != StatePushPending {
		s.mu.Unlock()
		return
	}
	s.state = StateAuthenticatedIdle
	s.timer = nil
	s.mu.Unlock()

	items := s.cart.Items()
	if len(items) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	if err := s.backend.SyncCart(ctx, items); err != nil {
		// No retry queue: the next mutation's debounce attempts again.
		s.logger.Warn("cart push failed", "error", err)
	}
}

func (s *Syncer) handleLogout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	s.epoch++
	s.state = StateAnonymous
}

func (s *Syncer) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

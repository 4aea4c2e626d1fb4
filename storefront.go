// Package perfume wires the client-side state core of the NOULA storefront:
// cart and order stores, the auth session, the backend client, and the cart
// sync state machine. The view layer holds one App for the lifetime of the
// application and reaches everything through it; there is no ambient global
// state.
package perfume

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Waggeh13/Perfume/api"
	"github.com/Waggeh13/Perfume/auth"
	"github.com/Waggeh13/Perfume/cart"
	"github.com/Waggeh13/Perfume/cartsync"
	"github.com/Waggeh13/Perfume/catalog"
	"github.com/Waggeh13/Perfume/checkout"
	"github.com/Waggeh13/Perfume/notice"
	"github.com/Waggeh13/Perfume/order"
	"github.com/Waggeh13/Perfume/sessionstore"
)

// Config carries the application wiring knobs. Zero values select sensible
// defaults: an in-memory session store, the standard debounce and notice
// intervals, and an instrumented default HTTP client.
type Config struct {
	BaseURL      string
	HTTPClient   *http.Client
	SessionStore sessionstore.Store
	Debounce     time.Duration
	NoticeTTL    time.Duration
	Logger       *slog.Logger
}

// App is the assembled client core, constructed once at application start.
type App struct {
	Session  *auth.Session
	Cart     *cart.Store
	Orders   *order.Store
	Checkout *checkout.Service
	Notices  *notice.Center
	API      *api.Client
	Sync     *cartsync.Syncer
}

// New builds and wires the application state. If a previous session was
// persisted, it is restored and the initial cart pull starts immediately.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := cfg.SessionStore
	if store == nil {
		store = sessionstore.NewMemoryStore()
	}

	session := auth.NewSession(store, logger)
	cartStore := cart.NewStore()
	orderStore := order.NewStore()
	client := api.NewClient(cfg.BaseURL, session, cfg.HTTPClient, logger)
	syncer := cartsync.New(client, cartStore, cfg.Debounce, logger)
	session.OnChange(syncer.HandleAuthChange)

	app := &App{
		Session:  session,
		Cart:     cartStore,
		Orders:   orderStore,
		Checkout: checkout.NewService(cartStore, orderStore),
		Notices:  notice.NewCenter(cfg.NoticeTTL),
		API:      client,
		Sync:     syncer,
	}

	if session.IsAuthenticated() {
		syncer.HandleAuthChange(true)
	}
	return app
}

// Login authenticates against the backend and opens the session. The
// outcome is also posted as a notice, matching what the login page shows.
func (a *App) Login(ctx context.Context, email, password string) error {
	resp, err := a.API.Login(ctx, email, password)
	if err != nil {
		a.Notices.Error(loginMessage(err))
		return err
	}

	a.Session.Login(ctx, resp.Token, resp.User, auth.SessionTypeUser)
	a.Notices.Success("Login successful!")
	return nil
}

// Register validates the form client-side, creates the account, and logs
// the new user straight in.
func (a *App) Register(ctx context.Context, fullName, email, password, confirm string) error {
	if err := auth.ValidateRegistration(password, confirm); err != nil {
		a.Notices.Error(err.Error())
		return err
	}

	resp, err := a.API.Register(ctx, fullName, email, password)
	if err != nil {
		a.Notices.Error(loginMessage(err))
		return err
	}

	a.Session.Login(ctx, resp.Token, resp.User, auth.SessionTypeUser)
	a.Notices.Success("Account created!")
	return nil
}

// Logout closes the session; the syncer cancels any pending push before
// this returns.
func (a *App) Logout(ctx context.Context) {
	a.Session.Logout(ctx)
}

// AddToCart resolves a catalog product and merges it into the cart.
func (a *App) AddToCart(productID int64, quantity int) error {
	p, err := catalog.ByID(productID)
	if err != nil {
		return err
	}
	cp, err := p.AsCartProduct()
	if err != nil {
		return err
	}
	return a.Cart.AddItem(cp, quantity)
}

// OnLoginRedirect registers the view hook invoked when a 401 forces the
// session closed and the user must be sent to the login entry point.
func (a *App) OnLoginRedirect(fn func()) {
	a.Session.OnForcedLogout(fn)
}

func loginMessage(err error) string {
	if errors.Is(err, api.ErrServer) {
		return err.Error()
	}
	return "Network error. Please try again."
}

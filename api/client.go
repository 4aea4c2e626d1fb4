// Package api is the boundary adapter for the remote storefront backend:
// the cart endpoints under /api/cart and the auth endpoints under /api/auth
// and /api/users. All requests go through the session for authorization and
// through a circuit breaker for the cart endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Waggeh13/Perfume/auth"
	"github.com/Waggeh13/Perfume/domain"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Common errors returned by the client
var (
	ErrUnauthorized = errors.New("request not authorized")
	ErrServer       = errors.New("server rejected the request")
)

const defaultTimeout = 10 * time.Second

// Client talks to the remote storefront backend.
type Client struct {
	baseURL string
	httpc   *http.Client
	session *auth.Session
	breaker *gobreaker.CircuitBreaker[[]domain.LineItem]
	logger  *slog.Logger
}

// NewClient builds a backend client. A nil httpc gets an instrumented
// default client.
func NewClient(baseURL string, session *auth.Session, httpc *http.Client, logger *slog.Logger) *Client {
	if httpc == nil {
		httpc = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultTimeout,
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		httpc:   httpc,
		session: session,
		breaker: gobreaker.NewCircuitBreaker[[]domain.LineItem](gobreaker.Settings{
			Name:    "cart-api",
			Timeout: 15 * time.Second,
		}),
		logger: logger,
	}
}

type cartPayload struct {
	Items []domain.LineItem `json:"items"`
}

// FetchCart retrieves the remote cart contents.
func (c *Client) FetchCart(ctx context.Context) ([]domain.LineItem, error) {
	return c.breaker.Execute(func() ([]domain.LineItem, error) {
		body, err := c.do(ctx, http.MethodGet, "/api/cart", nil)
		if err != nil {
			return nil, err
		}
		var payload cartPayload
		if errDecode := json.Unmarshal(body, &payload); errDecode != nil {
			return nil, fmt.Errorf("decode cart response: %w", errDecode)
		}
		return payload.Items, nil
	})
}

// SyncCart posts the full local cart state to the backend.
func (c *Client) SyncCart(ctx context.Context, items []domain.LineItem) error {
	_, err := c.breaker.Execute(func() ([]domain.LineItem, error) {
		_, errDo := c.do(ctx, http.MethodPost, "/api/cart/sync", cartPayload{Items: items})
		return nil, errDo
	})
	return err
}

// AuthResponse is the wire shape of a login or registration reply. The
// backend reports failures inside a 200 body via the error flag.
type AuthResponse struct {
	Token   string          `json:"token"`
	User    domain.Identity `json:"user"`
	Error   bool            `json:"error"`
	Message string          `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and identity payload.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authCall(ctx, "/api/auth/login", loginRequest{Email: email, Password: password})
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns the same shape as Login.
func (c *Client) Register(ctx context.Context, fullName, email, password string) (*AuthResponse, error) {
	return c.authCall(ctx, "/api/users/register", registerRequest{
		FullName: fullName,
		Email:    email,
		Password: password,
	})
}

func (c *Client) authCall(ctx context.Context, path string, reqBody any) (*AuthResponse, error) {
	body, err := c.do(ctx, http.MethodPost, path, reqBody)
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if errDecode := json.Unmarshal(body, &resp); errDecode != nil {
		return nil, fmt.Errorf("decode auth response: %w", errDecode)
	}
	if resp.Error {
		if resp.Message == "" {
			resp.Message = "authentication failed"
		}
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Message)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: no token in response", ErrServer)
	}
	return &resp, nil
}

// do performs one request with session authorization and central 401
// handling, returning the response body on 2xx.
func (c *Client) do(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.session.Authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if c.session.HandleUnauthorized(ctx, resp.StatusCode) {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s %s: %w (status %d)", method, path, ErrServer, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// HTTPClient talks JSON to the remote account service. The bearer token
// returned by register/login is held in memory only; the client never
// verifies it, it just reads the unverified expiry claim to notice when the
// provider session has lapsed. Verification is the server's job.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	token   string
	user    *models.User
	subs    map[int]func(*models.User)
	nextSub int
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		subs:    make(map[int]func(*models.User)),
	}
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *HTTPClient) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password, "display_name": displayName}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/register", body, &resp, false); err != nil {
		return nil, err
	}

	c.setAuthenticated(resp.User, resp.Token)
	return resp.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/login", body, &resp, false); err != nil {
		return nil, err
	}

	c.setAuthenticated(resp.User, resp.Token)
	return resp.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/logout", nil, nil, true)
	// An already-expired server session is still a successful logout
	// from the caller's point of view.
	if err != nil && !errors.Is(err, common.ErrorUnauthorized) {
		return err
	}

	c.setAnonymous()
	return nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, userID, displayName string) (*models.User, error) {
	body := map[string]string{"user_id": userID, "display_name": displayName}

	var user models.User
	if err := c.do(ctx, http.MethodPatch, "/api/v1/profile", body, &user, true); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	c.emit(&user)
	return &user, nil
}

func (c *HTTPClient) SendPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/api/v1/password-reset", body, nil, false)
}

// CurrentUser returns the in-memory user, or nil when there is no live
// session or its token has expired. It never touches the network.
func (c *HTTPClient) CurrentUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil || tokenExpired(c.token) {
		return nil
	}
	u := *c.user
	return &u
}

// Token returns the current bearer token for use by sibling adapters
// talking to the same backend.
func (c *HTTPClient) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// OnChange registers cb and immediately invokes it with the state known at
// subscription time. At startup that state is nil: the token is not
// persisted, so until someone logs in the live stream reports "no user".
func (c *HTTPClient) OnChange(cb func(*models.User)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = cb
	current := c.user
	if current != nil {
		u := *current
		current = &u
	}
	c.mu.Unlock()

	cb(current)

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) setAuthenticated(user *models.User, token string) {
	c.mu.Lock()
	c.user = user
	c.token = token
	c.mu.Unlock()
	c.emit(user)
}

func (c *HTTPClient) setAnonymous() {
	c.mu.Lock()
	c.user = nil
	c.token = ""
	c.mu.Unlock()
	c.emit(nil)
}

func (c *HTTPClient) emit(user *models.User) {
	c.mu.Lock()
	cbs := make([]func(*models.User), 0, len(c.subs))
	for _, cb := range c.subs {
		cbs = append(cbs, cb)
	}
	c.mu.Unlock()

	for _, cb := range cbs {
		var u *models.User
		if user != nil {
			clone := *user
			u = &clone
		}
		cb(u)
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.Token())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		return mapError(resp.StatusCode, er.Code, er.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// mapError translates the provider's error codes into the shared sentinel
// taxonomy. Unknown failures keep their original message.
func mapError(status int, code, message string) error {
	switch code {
	case "already_registered":
		return common.ErrorAlreadyRegistered
	case "invalid_credentials":
		return common.ErrorInvalidCredentials
	case "weak_password":
		return common.ErrorWeakPassword
	case "invalid_email":
		return common.ErrorInvalidEmail
	case "not_found":
		return common.ErrorNotFound
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return common.ErrorUnauthorized
	case status == http.StatusNotFound:
		return common.ErrorNotFound
	case status >= 500:
		return fmt.Errorf("%w: account service returned %d", common.ErrorUnavailable, status)
	}

	if message == "" {
		message = http.StatusText(status)
	}
	return fmt.Errorf("account service error: %s", message)
}

// tokenExpired reports whether the bearer token carries an exp claim in the
// past. Opaque (non-JWT) tokens are treated as live; the server is the
// authority either way.
func tokenExpired(token string) bool {
	if token == "" {
		return true
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now())
}

package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects OnChange emissions in order.
type recorder struct {
	mu     sync.Mutex
	events []*models.User
}

func (r *recorder) record(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, u)
}

func (r *recorder) all() []*models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.User(nil), r.events...)
}

func authServer(t *testing.T) *httptest.Server {
	t.Helper()
	user := models.User{ID: "user-1", Email: "a@b.com", DisplayName: "Ana", CreatedAt: time.Now().UTC()}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] == "taken@b.com" {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"code": "already_registered"})
			return
		}
		u := user
		u.Email = body["email"]
		u.DisplayName = body["display_name"]
		_ = json.NewEncoder(w).Encode(map[string]any{"user": u, "token": "tok-1"})
	})
	mux.HandleFunc("POST /api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"code": "invalid_credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user": user, "token": "tok-2"})
	})
	mux.HandleFunc("POST /api/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("PATCH /api/v1/profile", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		u := user
		u.DisplayName = body["display_name"]
		_ = json.NewEncoder(w).Encode(u)
	})
	mux.HandleFunc("POST /api/v1/password-reset", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] == "nobody@b.com" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"code": "not_found"})
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOnChange_InitialEmissionIsNil(t *testing.T) {
	c := NewHTTPClient(authServer(t).URL, time.Second)

	rec := &recorder{}
	unsub := c.OnChange(rec.record)
	defer unsub()

	events := rec.all()
	require.Len(t, events, 1)
	require.Nil(t, events[0])
}

func TestLogin_EmitsUserAndSetsToken(t *testing.T) {
	c := NewHTTPClient(authServer(t).URL, time.Second)

	rec := &recorder{}
	unsub := c.OnChange(rec.record)
	defer unsub()

	user, err := c.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", user.Email)
	require.Equal(t, "tok-2", c.Token())

	events := rec.all()
	require.Len(t, events, 2)
	require.Nil(t, events[0])
	require.NotNil(t, events[1])
	assert.Equal(t, "user-1", events[1].ID)

	current := c.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "a@b.com", current.Email)
}

func TestLogin_InvalidCredentialsMapped(t *testing.T) {
	c := NewHTTPClient(authServer(t).URL, time.Second)

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	require.ErrorIs(t, err, common.ErrorInvalidCredentials)
	require.Nil(t, c.CurrentUser())
}

func TestRegister_AlreadyRegisteredMapped(t *testing.T) {
	c := NewHTTPClient(authServer(t).URL, time.Second)

	_, err := c.Register(context.Background(), "taken@b.com", "secret1", "Ana")
	require.ErrorIs(t, err, common.ErrorAlreadyRegistered)
}

func TestRegister_ReturnsUserFromResponse(t *testing.T) {
	c := NewHTTPClient(authServer(t).URL, time.Second)

	user, err := c.Register(context.Background(), "new@b.com", "secret1", "Nia")
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", user.Email)
	assert.Equal(t, "Nia", user.DisplayName)
}

func TestLogout_EmitsNilAndClearsState(t *testing.T) {
	c := NewHTTPClient(authServer(t).URL, time.Second)
	ctx := context.Background()

	_, err := c.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	rec := &recorder{}
	unsub := c.OnChange(rec.record)
	defer unsub()

	require.NoError(t, c.Logout(ctx))

	require.Nil(t, c.CurrentUser())
	require.Empty(t, c.Token())

	events := rec.all()
	require.Len(t, events, 2)
	require.NotNil(t, events[0]) // snapshot at subscription time
	require.Nil(t, events[1])
}

func TestSendPasswordReset_NotFoundMapped(t *testing.T) {
	c := NewHTTPClient(authServer(t).URL, time.Second)

	err := c.SendPasswordReset(context.Background(), "nobody@b.com")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, c.SendPasswordReset(context.Background(), "a@b.com"))
}

func TestUpdateProfile_RefreshesUser(t *testing.T) {
	c := NewHTTPClient(authServer(t).URL, time.Second)
	ctx := context.Background()

	_, err := c.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	updated, err := c.UpdateProfile(ctx, "user-1", "Anastasia")
	require.NoError(t, err)
	assert.Equal(t, "Anastasia", updated.DisplayName)

	current := c.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "Anastasia", current.DisplayName)
}

func TestUnreachableServerMappedToUnavailable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", 100*time.Millisecond)

	_, err := c.Login(context.Background(), "a@b.com", "secret1")
	require.ErrorIs(t, err, common.ErrorUnavailable)
}

func TestUnknownErrorKeepsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "quota exceeded"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)

	_, err := c.Login(context.Background(), "a@b.com", "secret1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestTokenExpired(t *testing.T) {
	signed := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		})
		s, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return s
	}

	assert.True(t, tokenExpired(""))
	assert.True(t, tokenExpired(signed(time.Now().Add(-time.Hour))))
	assert.False(t, tokenExpired(signed(time.Now().Add(time.Hour))))
	// opaque tokens are the server's problem
	assert.False(t, tokenExpired("opaque-token"))
}

func TestCurrentUser_NilWhenTokenExpired(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	c.setAuthenticated(&models.User{ID: "user-1"}, signed)

	require.Nil(t, c.CurrentUser())
}

func TestOnChange_UnsubscribeStopsDelivery(t *testing.T) {
	c := NewHTTPClient(authServer(t).URL, time.Second)

	rec := &recorder{}
	unsub := c.OnChange(rec.record)
	unsub()

	_, err := c.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	require.Len(t, rec.all(), 1) // only the initial snapshot
}

// Package account wraps the remote authentication/account service. The
// concrete provider is a black box; this package only promises the Client
// contract and maps provider failures into the shared sentinel errors.
package account

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// Client is the account-provider capability required by the session manager.
//
// Contract:
//   - Register/Login/UpdateProfile return the resulting user on success.
//   - CurrentUser is a synchronous best-effort read of the live state and
//     may lag behind the server.
//   - OnChange registers a callback invoked with the current user (or nil)
//     on every authentication state change; the callback is also invoked
//     once with the state known at subscription time. The returned function
//     deregisters the callback.
//
// All blocking methods must honor context cancellation.
type Client interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, userID, displayName string) (*models.User, error)
	SendPasswordReset(ctx context.Context, email string) error
	CurrentUser() *models.User
	OnChange(cb func(*models.User)) (unsubscribe func())
	Close() error
}

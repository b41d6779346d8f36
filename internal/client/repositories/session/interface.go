// Package session implements the local session cache: durable storage of
// the last-known authenticated user snapshot. The cache is a best-effort
// accelerator, not the source of truth; callers treat failures as non-fatal.
package session

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// Cache is a single logical slot holding at most one user record.
// Writes are last-write-wins; there is no merge.
type Cache interface {
	// Read returns the cached user, or (nil, nil) if nothing is cached.
	Read(ctx context.Context) (*models.User, error)

	// Write replaces the cached user.
	Write(ctx context.Context, user *models.User) error

	// Clear removes the cached user. Clearing an empty cache is not an error.
	Clear(ctx context.Context) error
}

// Package tasks implements the task store adapters. Two variants exist:
// a remote document service over HTTP and a local embedded SQLite store.
// Which one is active is decided once, at composition time.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// Store describes CRUD over task records as provided by a backend.
// Ordering and owner scoping of results are the task service's concern;
// implementations only have to be honest about what they persist.
type Store interface {
	// List returns tasks belonging to the given owner.
	List(ctx context.Context, ownerID string) ([]models.Task, error)

	// GetByID returns a task by its identifier, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Task, error)

	// Create persists a new task with CreatedAt set at the moment of the
	// call and Completed false, returning the record including its
	// backend-assigned id.
	Create(ctx context.Context, title, ownerID string) (*models.Task, error)

	// Update applies a partial update and returns the record as persisted
	// after the write. A missing record yields common.ErrorNotFound.
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)

	// Delete removes a task. A missing record yields common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}

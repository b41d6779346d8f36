package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
)

// TaskService is the backend-agnostic facade over whichever task store is
// configured. It owns the two contracts the adapters are not trusted with:
// results are scoped to the requesting owner and ordered by creation time,
// most recent first.
type TaskService struct {
	store  tasks.Store
	logger logging.Logger
}

func NewTaskService(store tasks.Store, logger logging.Logger) *TaskService {
	return &TaskService{store: store, logger: logger.With("module", "task_service")}
}

// List returns the owner's tasks ordered by CreatedAt descending. Records
// with a foreign owner are dropped here regardless of what the adapter
// returned.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	items, err := s.store.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, t := range items {
		if t.OwnerID != ownerID {
			s.logger.Warn(ctx, "store returned task with foreign owner", "task_id", t.ID)
			continue
		}
		filtered = append(filtered, t)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// GetByID returns the task or common.ErrorNotFound. Ownership is not
// checked here; callers that expose the record must compare OwnerID first.
func (s *TaskService) GetByID(ctx context.Context, id string) (*models.Task, error) {
	return s.store.GetByID(ctx, id)
}

// Create persists a new incomplete task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, title, ownerID string) (*models.Task, error) {
	return s.store.Create(ctx, title, ownerID)
}

// Update applies a partial update and returns the record as persisted after
// the write. An empty patch is rejected before any I/O.
func (s *TaskService) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: update requires at least one field", common.ErrorValidation)
	}
	return s.store.Update(ctx, id, patch)
}

// Delete removes the task. A missing record surfaces common.ErrorNotFound;
// whether that matters is the caller's decision.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

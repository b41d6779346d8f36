package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// maxTitleLength is the longest accepted task title, in characters.
const maxTitleLength = 200

// TaskOps is the slice of the task service the task use cases need.
type TaskOps interface {
	List(ctx context.Context, ownerID string) ([]models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, title, ownerID string) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// CreateTask validates the title and owner before delegating.
type CreateTask struct {
	tasks TaskOps
}

func NewCreateTask(tasks TaskOps) *CreateTask {
	return &CreateTask{tasks: tasks}
}

func (uc *CreateTask) Execute(ctx context.Context, title, ownerID string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: title must not exceed %d characters", common.ErrorValidation, maxTitleLength)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", common.ErrorValidation)
	}
	return uc.tasks.Create(ctx, title, ownerID)
}

// ListTasks returns the owner's tasks, newest first.
type ListTasks struct {
	tasks TaskOps
}

func NewListTasks(tasks TaskOps) *ListTasks {
	return &ListTasks{tasks: tasks}
}

func (uc *ListTasks) Execute(ctx context.Context, ownerID string) ([]models.Task, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", common.ErrorValidation)
	}
	return uc.tasks.List(ctx, ownerID)
}

// GetTask fetches a single task by id.
type GetTask struct {
	tasks TaskOps
}

func NewGetTask(tasks TaskOps) *GetTask {
	return &GetTask{tasks: tasks}
}

func (uc *GetTask) Execute(ctx context.Context, id string) (*models.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: task id is required", common.ErrorValidation)
	}
	return uc.tasks.GetByID(ctx, id)
}

// UpdateTask applies a partial update to a task.
type UpdateTask struct {
	tasks TaskOps
}

func NewUpdateTask(tasks TaskOps) *UpdateTask {
	return &UpdateTask{tasks: tasks}
}

func (uc *UpdateTask) Execute(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: task id is required", common.ErrorValidation)
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: update requires at least one field", common.ErrorValidation)
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
		}
		if utf8.RuneCountInString(*patch.Title) > maxTitleLength {
			return nil, fmt.Errorf("%w: title must not exceed %d characters", common.ErrorValidation, maxTitleLength)
		}
	}
	return uc.tasks.Update(ctx, id, patch)
}

// DeleteTask removes a task. Deleting an already-deleted task is treated
// as success, so the operation is idempotent for callers.
type DeleteTask struct {
	tasks TaskOps
}

func NewDeleteTask(tasks TaskOps) *DeleteTask {
	return &DeleteTask{tasks: tasks}
}

func (uc *DeleteTask) Execute(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: task id is required", common.ErrorValidation)
	}

	err := uc.tasks.Delete(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

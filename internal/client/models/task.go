package models

import "time"

// Task is a single to-do item. ID is assigned by the active backend,
// CreatedAt and OwnerID are immutable after creation.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	OwnerID   string    `json:"owner_id"`
}

// TaskPatch describes a partial update. Nil fields are left unchanged;
// the owner is never editable.
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}

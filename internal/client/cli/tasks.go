package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// List prints the current user's tasks, newest first.
func (a *App) List(ctx context.Context) error {
	user := a.currentUser()
	if user == nil {
		fmt.Println("Not signed in")
		return nil
	}

	items, err := a.listTasks.Execute(ctx, user.ID)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No tasks yet")
		return nil
	}

	for _, t := range items {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Printf("[%s] %s  %s\n", mark, t.ID, t.Title)
	}
	return nil
}

// Add prompts for a title and creates a task owned by the current user.
func (a *App) Add(ctx context.Context) error {
	user := a.currentUser()
	if user == nil {
		fmt.Println("Not signed in")
		return nil
	}

	title, err := getSimpleText(a.reader, "Enter task title", os.Stdout)
	if err != nil {
		return err
	}

	task, err := a.createTask.Execute(ctx, title, user.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", task.ID)
	return nil
}

// Show prints one task in detail. Tasks owned by another account are
// reported as missing.
func (a *App) Show(ctx context.Context, id string) error {
	user := a.currentUser()
	if user == nil {
		fmt.Println("Not signed in")
		return nil
	}

	task, err := a.getTask.Execute(ctx, id)
	if err != nil {
		return err
	}
	if task.OwnerID != user.ID {
		fmt.Println("Task not found")
		return nil
	}

	status := "pending"
	if task.Completed {
		status = "completed"
	}
	fmt.Printf("%s\n  status:  %s\n  created: %s\n", task.Title, status, task.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

// Done marks the task with the given id as completed.
func (a *App) Done(ctx context.Context, id string) error {
	completed := true
	task, err := a.updateTask.Execute(ctx, id, models.TaskPatch{Completed: &completed})
	if err != nil {
		return err
	}

	fmt.Printf("Completed %s\n", task.Title)
	return nil
}

// Rename prompts for a new title for the task with the given id.
func (a *App) Rename(ctx context.Context, id string) error {
	title, err := getSimpleText(a.reader, "Enter new title", os.Stdout)
	if err != nil {
		return err
	}

	task, err := a.updateTask.Execute(ctx, id, models.TaskPatch{Title: &title})
	if err != nil {
		return err
	}

	fmt.Printf("Renamed to %s\n", task.Title)
	return nil
}

// Delete removes the task with the given id. Deleting an already-deleted
// task succeeds silently.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.deleteTask.Execute(ctx, id); err != nil {
		return err
	}

	fmt.Println("Deleted")
	return nil
}

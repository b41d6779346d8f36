package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/google/uuid"
)

// SQLiteStore persists tasks in the local embedded database. Ids are
// uuid strings assigned here; created_at is stored as unix nanoseconds.
//
// Even though a device usually hosts a single account, List filters by
// owner_id in SQL so the isolation contract holds if several accounts
// ever share one database file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	query := `SELECT id, title, completed, created_at, owner_id
		FROM tasks WHERE owner_id = ? ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select tasks: %v", common.ErrorStorage, err)
	}
	defer rows.Close()

	var result []models.Task
	for rows.Next() {
		item, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan task row: %v", common.ErrorStorage, err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate task rows: %v", common.ErrorStorage, err)
	}
	return result, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	return getByID(ctx, s.db, id)
}

func (s *SQLiteStore) Create(ctx context.Context, title, ownerID string) (*models.Task, error) {
	task := &models.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Completed: false,
		CreatedAt: time.Now(),
		OwnerID:   ownerID,
	}

	query := `INSERT INTO tasks (id, title, completed, created_at, owner_id) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Completed, task.CreatedAt.UnixNano(), task.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert task: %v", common.ErrorStorage, err)
	}
	return task, nil
}

// Update reads, merges and rewrites the record in one transaction, then
// returns the post-write state.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	var updated *models.Task

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := getByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			current.Title = *patch.Title
		}
		if patch.Completed != nil {
			current.Completed = *patch.Completed
		}

		query := `UPDATE tasks SET title = ?, completed = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, query, current.Title, current.Completed, id); err != nil {
			return fmt.Errorf("%w: failed to update task: %v", common.ErrorStorage, err)
		}

		updated, err = getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete task: %v", common.ErrorStorage, err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %v", common.ErrorStorage, err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func getByID(ctx context.Context, db dbx.DBTX, id string) (*models.Task, error) {
	query := `SELECT id, title, completed, created_at, owner_id FROM tasks WHERE id = ?`
	row := db.QueryRowContext(ctx, query, id)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan task: %v", common.ErrorStorage, err)
	}
	return task, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var createdAt int64
	if err := row.Scan(&task.ID, &task.Title, &task.Completed, &createdAt, &task.OwnerID); err != nil {
		return nil, err
	}
	task.CreatedAt = time.Unix(0, createdAt)
	return task, nil
}

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
)

// currentUserKey is the metadata key under which the user snapshot is stored.
const currentUserKey = "current_user"

// SQLiteCache keeps the user snapshot as a JSON blob in the metadata table.
type SQLiteCache struct {
	db dbx.DBTX
}

func NewSQLiteCache(db dbx.DBTX) *SQLiteCache {
	return &SQLiteCache{db: db}
}

func (c *SQLiteCache) Read(ctx context.Context) (*models.User, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, currentUserKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read session cache: %v", common.ErrorStorage, err)
	}

	user := &models.User{}
	if err := json.Unmarshal(value, user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode cached session: %v", common.ErrorStorage, err)
	}
	return user, nil
}

func (c *SQLiteCache) Write(ctx context.Context, user *models.User) error {
	value, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: failed to encode session: %v", common.ErrorStorage, err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, currentUserKey, value)
	if err != nil {
		return fmt.Errorf("%w: failed to write session cache: %v", common.ErrorStorage, err)
	}
	return nil
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, currentUserKey)
	if err != nil {
		return fmt.Errorf("%w: failed to clear session cache: %v", common.ErrorStorage, err)
	}
	return nil
}

package session

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func testUser() *models.User {
	return &models.User{
		ID:          "user-1",
		Email:       "a@b.com",
		DisplayName: "Ana",
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRead_Empty_ReturnsNilNil(t *testing.T) {
	c := NewSQLiteCache(setupDB(t))

	u, err := c.Read(context.Background())
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestWriteAndRead_RoundTrip(t *testing.T) {
	c := NewSQLiteCache(setupDB(t))
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, testUser()))

	u, err := c.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, testUser(), u)
}

func TestWrite_OverwritesPreviousUser(t *testing.T) {
	c := NewSQLiteCache(setupDB(t))
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, testUser()))

	other := testUser()
	other.ID = "user-2"
	other.DisplayName = "Bo"
	require.NoError(t, c.Write(ctx, other))

	u, err := c.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-2", u.ID)
	require.Equal(t, "Bo", u.DisplayName)
}

func TestClear_RemovesUser_AndIsIdempotent(t *testing.T) {
	c := NewSQLiteCache(setupDB(t))
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, testUser()))
	require.NoError(t, c.Clear(ctx))

	u, err := c.Read(ctx)
	require.NoError(t, err)
	require.Nil(t, u)

	require.NoError(t, c.Clear(ctx))
}

func TestRead_DBError_WrappedAsStorage(t *testing.T) {
	db := setupDB(t)
	c := NewSQLiteCache(db)

	require.NoError(t, db.Close())

	_, err := c.Read(context.Background())
	require.ErrorIs(t, err, common.ErrorStorage)
}

func TestWrite_DBError_WrappedAsStorage(t *testing.T) {
	db := setupDB(t)
	c := NewSQLiteCache(db)

	require.NoError(t, db.Close())

	err := c.Write(context.Background(), testUser())
	require.ErrorIs(t, err, common.ErrorStorage)
}

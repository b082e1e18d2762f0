package surrealdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(id, email string) *models.User {
	return &models.User{
		UserID:       id,
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Now().Truncate(time.Second),
	}
}

func TestUserStoreSaveGet(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db, testLogger())
	ctx := context.Background()

	user := testUser("user1", "alice@example.com")
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUser(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "user1", got.UserID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.False(t, got.Admin)
}

func TestUserStoreGetNotFound(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db, testLogger())

	_, err := store.GetUser(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUserStoreGetByEmail(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, testUser("user1", "bob@example.com")))
	require.NoError(t, store.SaveUser(ctx, testUser("user2", "carol@example.com")))

	got, err := store.GetUserByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user2", got.UserID)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUserStoreSaveOverwrite(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db, testLogger())
	ctx := context.Background()

	user := testUser("overwrite", "dave@example.com")
	require.NoError(t, store.SaveUser(ctx, user))

	user.Admin = true
	user.PasswordHash = "$2a$10$replaced"
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUser(ctx, "overwrite")
	require.NoError(t, err)
	assert.True(t, got.Admin)
	assert.Equal(t, "$2a$10$replaced", got.PasswordHash)

	// UPSERT keeps one record per id
	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserStoreDelete(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, testUser("gone", "erin@example.com")))
	require.NoError(t, store.DeleteUser(ctx, "gone"))

	_, err := store.GetUser(ctx, "gone")
	assert.True(t, errors.Is(err, ErrNotFound))

	// Deleting a missing record stays idempotent
	assert.NoError(t, store.DeleteUser(ctx, "gone"))
}

func TestUserStoreList(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db, testLogger())
	ctx := context.Background()

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, store.SaveUser(ctx, testUser("l1", "one@example.com")))
	require.NoError(t, store.SaveUser(ctx, testUser("l2", "two@example.com")))

	users, err = store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

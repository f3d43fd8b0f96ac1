package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskapp/backend/internal/models"
)

func setupUserCache(t *testing.T) (*UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewUserCache(rdb, time.Minute), mr
}

func TestUserCache_SetGet(t *testing.T) {
	c, mr := setupUserCache(t)
	ctx := context.Background()
	picture := "https://cdn.example.com/alice.png"

	user := &models.User{
		ID:             3,
		Username:       "alice",
		Email:          "a@x.com",
		PasswordHash:   "$2a$10$secret",
		ProfilePicture: &picture,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Role:           models.RoleUser,
	}
	require.NoError(t, c.Set(ctx, user))

	raw, err := mr.Get("taskapp:user:3")
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")
	assert.Equal(t, time.Minute, mr.TTL("taskapp:user:3"))

	got, err := c.Get(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, picture, *got.ProfilePicture)
	assert.Empty(t, got.PasswordHash)
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
}

func TestUserCache_MissAndInvalidate(t *testing.T) {
	c, _ := setupUserCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, &models.User{ID: 9, Username: "bob", Role: models.RoleAdmin}))
	require.NoError(t, c.Invalidate(ctx, 9))

	got, err = c.Get(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserCache_Expiry(t *testing.T) {
	c, mr := setupUserCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &models.User{ID: 1, Username: "alice"}))
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserCache_ServerDown(t *testing.T) {
	c, mr := setupUserCache(t)
	mr.Close()

	got, err := c.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, got)
}

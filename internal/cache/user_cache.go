// Package cache keeps user records in Redis so the auth middleware does not hit MySQL on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskapp/backend/internal/models"
)

const keyUser = "taskapp:user:"

// cachedUser is the stored form of models.User; the password hash is never cached
type cachedUser struct {
	ID             int         `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	ProfilePicture *string     `json:"profile_picture"`
	CreatedAt      time.Time   `json:"created_at"`
	Role           models.Role `json:"role"`
}

// UserCache caches user records by id
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUserCache returns a new UserCache
func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached user or nil on a miss
func (c *UserCache) Get(ctx context.Context, id int) (*models.User, error) {
	b, err := c.rdb.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cu cachedUser
	if err := json.Unmarshal(b, &cu); err != nil {
		return nil, err
	}
	return &models.User{
		ID:             cu.ID,
		Username:       cu.Username,
		Email:          cu.Email,
		ProfilePicture: cu.ProfilePicture,
		CreatedAt:      cu.CreatedAt,
		Role:           cu.Role,
	}, nil
}

// Set stores the user
func (c *UserCache) Set(ctx context.Context, user *models.User) error {
	b, err := json.Marshal(cachedUser{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		Role:           user.Role,
	})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, userKey(user.ID), b, c.ttl).Err()
}

// Invalidate removes the user from the cache
func (c *UserCache) Invalidate(ctx context.Context, id int) error {
	return c.rdb.Del(ctx, userKey(id)).Err()
}

func userKey(id int) string {
	return keyUser + strconv.Itoa(id)
}

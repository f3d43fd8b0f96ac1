package services

import (
	"context"
	"strconv"

	"github.com/taskapp/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// UserGetter loads a user by ID
type UserGetter interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// UserCache is the interface that wraps the user record cache
type UserCache interface {
	// Method Get returns the cached user, or "nil" without error on a miss.
	Get(ctx context.Context, id int) (*models.User, error)
	// Method Set stores the user.
	Set(ctx context.Context, user *models.User) error
	// Method Invalidate removes the user from the cache.
	Invalidate(ctx context.Context, id int) error
}

// UserLookup resolves the acting user of a request.
// Concurrent misses for the same ID share one database query; cache failures fall back to the database.
type UserLookup struct {
	repo   UserGetter
	cache  UserCache
	group  singleflight.Group
	logger *zap.Logger
}

// NewUserLookup creates a user lookup. cache may be nil.
func NewUserLookup(repo UserGetter, cache UserCache, logger *zap.Logger) *UserLookup {
	return &UserLookup{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// GetByID returns the user with the given ID
func (l *UserLookup) GetByID(ctx context.Context, id int) (*models.User, error) {
	if l.cache != nil {
		user, err := l.cache.Get(ctx, id)
		if err != nil {
			l.logger.Warn("user cache read failed", zap.Int("userId", id), zap.Error(err))
		} else if user != nil {
			return user, nil
		}
	}

	// the shared query outlives the caller that started it
	queryCtx := context.WithoutCancel(ctx)
	v, err, _ := l.group.Do(strconv.Itoa(id), func() (any, error) {
		user, err := l.repo.GetByID(queryCtx, id)
		if err != nil {
			return nil, err
		}
		if l.cache != nil {
			if err := l.cache.Set(queryCtx, user); err != nil {
				l.logger.Warn("user cache write failed", zap.Int("userId", id), zap.Error(err))
			}
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers may mutate the result, so each gets its own copy
	user := *v.(*models.User)
	return &user, nil
}

// Invalidate drops the cached copy of a user
func (l *UserLookup) Invalidate(ctx context.Context, id int) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Invalidate(ctx, id); err != nil {
		l.logger.Warn("user cache invalidation failed", zap.Int("userId", id), zap.Error(err))
	}
}

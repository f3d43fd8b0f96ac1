package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskapp/backend/internal/apperrors"
	"github.com/taskapp/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserInvalidator drops cached user records after a change
type UserInvalidator interface {
	Invalidate(ctx context.Context, id int)
}

type profileService struct {
	userRepo    UserRepository
	invalidator UserInvalidator
	logger      *zap.Logger
	hashCost    int
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo UserRepository, invalidator UserInvalidator, logger *zap.Logger) *profileService {
	return &profileService{
		userRepo:    userRepo,
		invalidator: invalidator,
		logger:      logger,
		hashCost:    bcrypt.DefaultCost,
	}
}

// GetUser returns the public profile of a user
func (s *profileService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the supplied subset of username, email, profile picture and password.
//
// A changed username or email must not belong to another user (ConflictError).
// The password is re-hashed. An empty or null profile picture clears it.
func (s *profileService) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username.Set {
		if req.Username.Null {
			return nil, apperrors.Validation("username cannot be empty")
		}
		username, err := normalizeUsername(req.Username.Value)
		if err != nil {
			return nil, err
		}
		if username != user.Username {
			exists, err := s.userRepo.ExistsByUsername(ctx, username, user.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if exists {
				return nil, apperrors.Conflict("username already exists")
			}
		}
		user.Username = username
	}

	if req.Email.Set {
		if req.Email.Null {
			return nil, apperrors.Validation("email cannot be empty")
		}
		email, err := normalizeEmail(req.Email.Value)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, email, user.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return nil, apperrors.Conflict("email already exists")
			}
		}
		user.Email = email
	}

	if req.ProfilePicture.Set {
		picture := strings.TrimSpace(req.ProfilePicture.Value)
		switch {
		case req.ProfilePicture.Null || picture == "":
			user.ProfilePicture = nil
		case len(picture) > maxProfilePictureLength:
			return nil, apperrors.Validation(fmt.Sprintf("profile_picture must be at most %d characters", maxProfilePictureLength))
		default:
			user.ProfilePicture = &picture
		}
	}

	if req.Password.Set {
		if req.Password.Null {
			return nil, apperrors.Validation("password is required")
		}
		if err := checkPassword(req.Password.Value); err != nil {
			return nil, err
		}
		hash, err := hashPassword(req.Password.Value, s.hashCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.invalidator.Invalidate(ctx, user.ID)

	s.logger.Info("profile updated", zap.Int("userId", user.ID))
	return user, nil
}

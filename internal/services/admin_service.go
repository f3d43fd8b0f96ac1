package services

import (
	"context"
	"fmt"

	"github.com/taskapp/backend/internal/apperrors"
	"github.com/taskapp/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminAccount describes the account created at first start
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

type adminService struct {
	userRepo UserRepository
	logger   *zap.Logger
	hashCost int
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo UserRepository, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

// ListUsers returns every user
func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}

// EnsureAdmin creates the admin account unless a user with its username exists.
// It reports whether an account was created. Running it again is a no-op.
func (s *adminService) EnsureAdmin(ctx context.Context, account AdminAccount) (bool, error) {
	_, err := s.userRepo.GetByUsername(ctx, account.Username)
	if err == nil {
		return false, nil
	}
	if !apperrors.Is(err, apperrors.KindNotFound) {
		return false, fmt.Errorf("failed to look up admin user: %w", err)
	}

	passwordHash, err := hashPassword(account.Password, s.hashCost)
	if err != nil {
		return false, err
	}

	admin := &models.User{
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		// Another instance created it first
		if apperrors.Is(err, apperrors.KindConflict) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	s.logger.Info("default admin user created", zap.String("username", admin.Username), zap.Int("userId", admin.ID))
	return true, nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taskapp/backend/internal/apperrors"
	"github.com/taskapp/backend/internal/auth/service"
	"github.com/taskapp/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLength       = 80
	maxEmailLength          = 120
	maxProfilePictureLength = 200
	// bcrypt ignores input past 72 bytes
	maxPasswordBytes = 72
)

// UserSharedRepository is the interface that wraps uniqueness checks on the users table
type UserSharedRepository interface {
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// "email" parameter is compared against stored emails.
	// "excludeID" parameter skips the user with this ID; pass 0 to check every user.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error)
	// Method ExistsByUsername checks if a user with such username exists.
	//
	// Please reference ExistsByEmail method for more information about parameters and error values.
	ExistsByUsername(ctx context.Context, username string, excludeID int) (bool, error)
}

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	UserSharedRepository
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user. On success its ID is filled.
	//
	// If username or email is already taken, a ConflictError is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByUsername retrieves a user by username.
	//
	// If user with such username does not exist, a NotFoundError will be returned together with "nil" value.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, a NotFoundError will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method GetAll retrieves every user ordered by ID.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.User, error)
	// Method Update stores username, email, password hash and profile picture of an existing user.
	//
	// If the new username or email is already taken, a ConflictError is returned.
	Update(ctx context.Context, user *models.User) error
}

// authService implements registration and login
type authService struct {
	userRepo       UserRepository
	tokenGenerator *service.TokenGenerator
	logger         *zap.Logger
	hashCost       int
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenGenerator *service.TokenGenerator, logger *zap.Logger) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
		hashCost:       bcrypt.DefaultCost,
	}
}

// Register creates a new account with the "user" role
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email, username, err := checkRegisterCredentials(ctx, s.userRepo, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int("userId", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues an access token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenGenerator.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

// VerifyCredentials returns the user whose username and password match.
// Blank input, unknown users and wrong passwords produce the same AuthError.
func (s *authService) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.Auth("invalid credentials")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.Auth("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Auth("invalid credentials")
	}

	return user, nil
}

// checkRegisterCredentials validates registration input and returns the normalized email and username
func checkRegisterCredentials(ctx context.Context, repo UserSharedRepository, email, username, password string) (string, string, error) {
	normalizedUsername, err := normalizeUsername(username)
	if err != nil {
		return "", "", err
	}
	normalizedEmail, err := normalizeEmail(email)
	if err != nil {
		return "", "", err
	}
	if err := checkPassword(password); err != nil {
		return "", "", err
	}

	exists, err := repo.ExistsByUsername(ctx, normalizedUsername, 0)
	if err != nil {
		return "", "", fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return "", "", apperrors.Conflict("username already exists")
	}

	exists, err = repo.ExistsByEmail(ctx, normalizedEmail, 0)
	if err != nil {
		return "", "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return "", "", apperrors.Conflict("email already exists")
	}

	return normalizedEmail, normalizedUsername, nil
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperrors.Validation("username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return "", apperrors.Validation(fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	}
	return username, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperrors.Validation("email is required")
	}
	if len(email) > maxEmailLength {
		return "", apperrors.Validation(fmt.Sprintf("email must be at most %d characters", maxEmailLength))
	}
	return email, nil
}

func checkPassword(password string) error {
	if password == "" {
		return apperrors.Validation("password is required")
	}
	if len(password) > maxPasswordBytes {
		return apperrors.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

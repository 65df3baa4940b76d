package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GabyPng/Happ/internal/auth"
	"github.com/GabyPng/Happ/internal/constants"
	"github.com/GabyPng/Happ/internal/logging"
	"github.com/GabyPng/Happ/internal/models"
	"github.com/GabyPng/Happ/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
	ErrTokenExpired         = auth.ErrTokenExpired
	ErrTokenInvalid         = auth.ErrTokenMalformed
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo  repository.UserRepository
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenManager
	now       func() time.Time
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenManager) *AuthService {
	// Unknown emails are checked against this hash so they cost as much as a wrong password
	dummyHash, err := hasher.Hash("happiety-unknown-user")
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to prepare dummy password hash")
	}

	return &AuthService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		now:       time.Now,
		dummyHash: dummyHash,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User  *models.User
	Token string
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user and signs them in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword("password", input.Password); err != nil {
		return nil, err
	}
	displayName, err := requiredText("displayName", input.DisplayName, constants.MaxDisplayNameLength)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		Email:                email,
		PasswordHash:         hashedPassword,
		DisplayName:          displayName,
		ThemePreference:      models.DefaultThemeName,
		NotificationsEnabled: true,
		LastLoginAt:          &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	logging.Info().Uint64("user_id", user.ID).Msg("User registered")
	return &AuthResult{User: user, Token: token}, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user with a token.
// Unknown emails and wrong passwords fail with the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if len(input.Password) > constants.MaxPasswordBytes {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.hasher.Verify(s.dummyHash, input.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// VerifyToken checks a bearer token without touching storage.
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	return s.tokens.Verify(token)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ChangePasswordInput holds the current and the replacement password.
type ChangePasswordInput struct {
	UserID          uint64
	CurrentPassword string
	NewPassword     string
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if err := validatePassword("newPassword", input.NewPassword); err != nil {
		return err
	}

	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := s.hasher.Verify(user.PasswordHash, input.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return ErrWrongCurrentPassword
		}
		return err
	}

	hashedPassword, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logging.Info().Uint64("user_id", user.ID).Msg("Password changed")
	return nil
}

// validatePassword checks the length bounds; bcrypt rejects anything over 72 bytes.
func validatePassword(field, password string) error {
	if len(password) < constants.MinPasswordLength {
		return invalid(field, "%s must be at least %d characters", field, constants.MinPasswordLength)
	}
	if len(password) > constants.MaxPasswordBytes {
		return invalid(field, "%s must be at most %d bytes", field, constants.MaxPasswordBytes)
	}
	return nil
}

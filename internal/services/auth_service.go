package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/habitsync-api/internal/cache"
	"github.com/yukikurage/habitsync-api/internal/constants"
	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired        = errors.New("email is required")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameRequired     = errors.New("username is required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrResetUnavailable     = errors.New("password reset is not configured")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
)

// AuthService handles authentication and profile business logic.
type AuthService struct {
	userRepo    repository.UserRepository
	resetTokens *cache.TokenCache
}

// NewAuthService creates a new AuthService. The token cache may be nil, in
// which case password reset is unavailable.
func NewAuthService(userRepo repository.UserRepository, resetTokens *cache.TokenCache) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		resetTokens: resetTokens,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email    string
	Password string
}

// Signup creates a new user account. The username is set separately during
// onboarding.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateUsername sets the display name chosen during onboarding.
func (s *AuthService) UpdateUsername(userID uint64, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > constants.MaxNameLength {
		return nil, ErrUsernameRequired
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	user.Username = username
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update username: %w", err)
	}

	return user, nil
}

// EmailExists reports whether an account is registered under the email.
// Pairing uses it to validate invitation recipients.
func (s *AuthService) EmailExists(email string) (bool, error) {
	_, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check email: %w", err)
}

// RequestPasswordReset issues a short-lived reset token for the account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if s.resetTokens == nil {
		return "", ErrResetUnavailable
	}

	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	token := uuid.NewString()
	if err := s.resetTokens.SaveResetToken(ctx, token, user.ID); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return token, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if s.resetTokens == nil {
		return ErrResetUnavailable
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	userID, err := s.resetTokens.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrTokenNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.resetTokens.DeleteResetToken(ctx, token); err != nil {
		return fmt.Errorf("failed to invalidate reset token: %w", err)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package user provides registration, authentication, and profile management
package user

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/arvyo/arvyo-server/internal/common"
	"github.com/arvyo/arvyo-server/internal/interfaces"
	"github.com/arvyo/arvyo-server/internal/models"
)

// Compile-time interface check
var _ interfaces.UserService = (*Service)(nil)

// Service implements UserService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new user service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// hashPassword hashes with bcrypt, truncating to 72 bytes first since
// bcrypt ignores anything beyond that.
func hashPassword(password string) (string, error) {
	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, 10)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes) == nil
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (*models.InternalUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.storage.InternalStore().GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email '%s' is already registered", email)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.InternalUser{
		UserID:       common.NewID("usr"),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         "user",
	}
	if err := s.storage.InternalStore().SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info().Str("user_id", user.UserID).Str("email", email).Msg("User registered")
	return user, nil
}

// Authenticate verifies credentials and returns the user on success.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.InternalUser, error) {
	user, err := s.storage.InternalStore().GetUserByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and wrong password
		return nil, fmt.Errorf("invalid email or password")
	}
	if !checkPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid email or password")
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(ctx context.Context, userID string) (*models.InternalUser, error) {
	return s.storage.InternalStore().GetUser(ctx, userID)
}

// UpdateUser applies profile changes (name, password)
func (s *Service) UpdateUser(ctx context.Context, userID string, updates interfaces.UserUpdates) (*models.InternalUser, error) {
	user, err := s.storage.InternalStore().GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		user.Name = strings.TrimSpace(*updates.Name)
	}
	if updates.Password != nil {
		if len(*updates.Password) < 8 {
			return nil, fmt.Errorf("password must be at least 8 characters")
		}
		hash, err := hashPassword(*updates.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.storage.InternalStore().SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("User updated")
	return user, nil
}

// DeleteUser removes the user account
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := s.storage.InternalStore().DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("User deleted")
	return nil
}

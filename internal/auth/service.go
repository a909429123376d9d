package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/agrisense/agrisense-be/internal/models"
	"github.com/agrisense/agrisense-be/internal/storage"
)

// Service orchestrates registration, login, and password updates over the
// user store, hasher, and token manager. It is stateless across requests.
type Service struct {
	users  storage.UserStore
	hasher PasswordHasher
	tokens *TokenManager
}

// NewService constructs the authentication service.
func NewService(users storage.UserStore, hasher PasswordHasher, tokens *TokenManager) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Register creates an account and returns a fresh bearer token. Policy
// violations surface as *PolicyError, duplicate emails as ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, hash)
	if err != nil {
		// The lookup above is only a fast path; a concurrent
		// registration can slip past it, and the store's unique index
		// reports the conflict here.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	return s.tokens.Generate(user.ID, user.Email)
}

// Login verifies credentials and returns a fresh bearer token. Unknown
// emails and wrong passwords return the same ErrInvalidCredentials value.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Generate(user.ID, user.Email)
}

// UpdatePassword replaces the stored credential for the given email. The
// new password goes through the same policy as registration. Returns
// storage.ErrNotFound for unknown emails.
func (s *Service) UpdatePassword(ctx context.Context, email, newPassword, confirmPassword string) (models.User, error) {
	if newPassword != confirmPassword {
		return models.User{}, ErrPasswordMismatch
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}

	if err := ValidatePassword(newPassword); err != nil {
		return models.User{}, err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	updated, err := s.users.UpdatePassword(ctx, email, hash)
	if err != nil {
		return models.User{}, fmt.Errorf("update password: %w", err)
	}

	// The reset flow takes no proof of the old password, so every update
	// is worth an audit trail entry.
	logrus.WithField("user_id", updated.ID).Warn("password updated without re-authentication")

	return updated, nil
}

// Package services implements the use cases behind the HTTP handlers.
package services

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"clipscribe/internal/api/errors"
	"clipscribe/internal/api/v1/dto"
	"clipscribe/internal/app/model"
	"clipscribe/internal/app/repository"
)

// AuthService handles registration, login and profile updates.
type AuthService struct {
	users repository.UserRepository
	log   *zap.SugaredLogger
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, log *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, log: log}
}

// Register creates an account with a bcrypt password hash. The email must not
// already exist; the caller passes it pre-lowercased.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errors.NewValidationError("Email already registered")
	} else if !stderrors.Is(err, repository.ErrNotFound) {
		s.log.Errorw("email lookup failed", "error", err)
		return nil, errors.NewInternalError("Registration failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("Registration failed")
	}

	user := &model.User{Email: email, PasswordHash: string(hash), Name: name}
	if err := s.users.Create(ctx, user); err != nil {
		s.log.Errorw("user creation failed", "email", email, "error", err)
		return nil, errors.NewInternalError("Registration failed")
	}

	s.log.Infow("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error so the endpoint does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}
	if err != nil {
		s.log.Errorw("email lookup failed", "error", err)
		return nil, errors.NewInternalError("Login failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}
	return user, nil
}

// UpdateProfile applies the provided contact fields and persists them.
func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, req *dto.ProfileUpdateRequest) error {
	req.ApplyTo(user)
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		s.log.Errorw("profile update failed", "user_id", user.ID, "error", err)
		return errors.NewInternalError("Failed to update profile")
	}
	return nil
}

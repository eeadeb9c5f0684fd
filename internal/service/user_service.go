package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"whisperlink/internal/auth"
	"whisperlink/internal/domain"
	"whisperlink/internal/repository"
	"whisperlink/internal/validation"
)

// UserService describes account lifecycle operations.
type UserService interface {
	Register(ctx context.Context, input validation.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetProfile(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// Register validates the input, pre-checks uniqueness, hashes the password
// and inserts the account. The store's unique constraints remain the final
// authority: a race that slips past the pre-check still surfaces as a
// ConflictError from the insert.
func (s *userService) Register(ctx context.Context, input validation.RegisterInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	if verr := validation.ValidateRegistration(input); verr != nil {
		return nil, verr
	}

	existing, err := s.users.FindByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		if existing.Email == input.Email {
			return nil, &ConflictError{Field: "email"}
		}
		return nil, &ConflictError{Field: "username"}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) {
			return nil, &ConflictError{Field: conflict.Field}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return sanitizeUser(user), nil
}

// Authenticate resolves the account by email and verifies the password.
// Unknown email and wrong password return the same error.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

// GetProfile resolves the public profile for a share link.
func (s *userService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return sanitizeUser(user), nil
}

// sanitizeUser strips the password hash before a user leaves the service
// boundary. Callers never see the digest, by contract rather than accident.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

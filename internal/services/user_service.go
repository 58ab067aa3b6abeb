package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/storage"
)

type userServiceImpl struct {
	logger zerolog.Logger
	users  storage.UserRepository
}

func NewUserService(
	logger zerolog.Logger,
	store storage.Storage,
) UserService {
	return &userServiceImpl{
		logger: logger,
		users:  store.Users(),
	}
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", userID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user")
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(params.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if params.Password != "" && len(params.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long",
			ErrInvalidInput, minPasswordLength)
	}

	user, err := s.GetUser(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		other, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != user.ID:
			s.logger.Error().
				Str("user_id", user.ID).
				Str("email", email).
				Msg("email is taken by another user")
			return nil, ErrUserAlreadyExists
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			s.logger.Error().
				Err(err).
				Str("email", email).
				Msg("failed to select user by email")
			return nil, err
		}
	}

	user.Name = name
	user.Email = email
	if params.Image.Present {
		user.Image = optional(params.Image.Value)
	}

	if params.Password != "" {
		passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to hash password")
			return nil, err
		}
		user.Password = &passwordHash
	}

	user.UpdatedAt = now()
	err = s.users.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			return nil, ErrUserAlreadyExists
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated profile")
	return user, nil
}

func (s *userServiceImpl) DeleteAccount(ctx context.Context, userID string) error {
	err := s.users.Delete(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete user")
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Msg("deleted account")
	return nil
}

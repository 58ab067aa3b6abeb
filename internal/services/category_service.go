package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/storage"
)

type categoryServiceImpl struct {
	logger     zerolog.Logger
	categories storage.CategoryRepository
}

func NewCategoryService(
	logger zerolog.Logger,
	store storage.Storage,
) CategoryService {
	return &categoryServiceImpl{
		logger:     logger,
		categories: store.Categories(),
	}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	categories, err := s.categories.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select categories")
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("count", len(categories)).
		Msg("selected categories")
	return categories, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error) {
	name, err := requiredText("name", params.Name)
	if err != nil {
		return nil, err
	}

	createdAt := now()
	category := &models.Category{
		UserID:    params.UserID,
		Name:      name,
		Color:     optional(params.Color),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	categoryUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate category uuid")
		return nil, err
	}
	category.ID = categoryUUID.String()

	err = s.categories.Create(ctx, category)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to insert category")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", params.UserID).
		Str("category_id", category.ID).
		Msg("created category")
	return category, nil
}

func (s *categoryServiceImpl) GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	return s.ownedCategory(ctx, userID, categoryID)
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (*models.Category, error) {
	category, err := s.ownedCategory(ctx, params.UserID, params.CategoryID)
	if err != nil {
		return nil, err
	}

	if params.Name.Present {
		name, err := requiredText("name", params.Name.Value)
		if err != nil {
			return nil, err
		}
		category.Name = name
	}

	if params.Color.Present {
		category.Color = optional(params.Color.Value)
	}

	category.UpdatedAt = now()
	err = s.categories.Update(ctx, category)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}

		s.logger.Error().
			Err(err).
			Str("category_id", category.ID).
			Msg("failed to update category")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", params.UserID).
		Str("category_id", category.ID).
		Msg("updated category")
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if _, err := s.ownedCategory(ctx, userID, categoryID); err != nil {
		return err
	}

	err := s.categories.Delete(ctx, categoryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCategoryNotFound
		}

		s.logger.Error().
			Err(err).
			Str("category_id", categoryID).
			Msg("failed to delete category")
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("category_id", categoryID).
		Msg("deleted category")
	return nil
}

func (s *categoryServiceImpl) ownedCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("category_id", categoryID).
				Msg("category not found")
			return nil, ErrCategoryNotFound
		}

		s.logger.Error().
			Err(err).
			Str("category_id", categoryID).
			Msg("failed to select category")
		return nil, err
	}

	if category.UserID != userID {
		s.logger.Warn().
			Str("user_id", userID).
			Str("category_id", categoryID).
			Msg("category belongs to another user")
		return nil, ErrForbidden
	}
	return category, nil
}

// optional maps a blank string to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

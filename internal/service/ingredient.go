package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/apperrors"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"go.uber.org/zap"
)

// IngredientService handles the catalog and ingredient selection sessions
type IngredientService struct {
	repo   IngredientRepository
	logger *zap.Logger
}

// NewIngredientService creates a new IngredientService instance
func NewIngredientService(repo IngredientRepository, logger *zap.Logger) *IngredientService {
	return &IngredientService{repo: repo, logger: logger}
}

// GetIngredients lists the catalog, optionally filtered by category
func (s *IngredientService) GetIngredients(ctx context.Context, category *string) ([]models.Ingredient, error) {
	return s.repo.ListIngredients(ctx, category)
}

// StartIngredientSelection creates an empty ingredient list
func (s *IngredientService) StartIngredientSelection(ctx context.Context) (*models.IngredientList, error) {
	list, err := s.repo.CreateIngredientList(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Started ingredient selection", zap.String("ingredient_list_id", list.ID.String()))
	return list, nil
}

// GetIngredientList returns a list with its ingredients in order
func (s *IngredientService) GetIngredientList(ctx context.Context, listID string) (*models.IngredientList, error) {
	id, err := parseID(listID, "ingredientListId")
	if err != nil {
		return nil, err
	}
	return s.repo.GetIngredientList(ctx, id)
}

// AddIngredient appends a catalog ingredient, looked up by name, to the list
func (s *IngredientService) AddIngredient(ctx context.Context, listID, ingredient string) (*models.IngredientList, error) {
	id, ing, err := s.resolve(ctx, listID, ingredient)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.AddIngredient(ctx, id, ing)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Added ingredient",
		zap.String("ingredient_list_id", id.String()),
		zap.String("ingredient", ing.Name),
		zap.Int("size", len(list.Items)),
	)
	return list, nil
}

// RemoveIngredient drops a catalog ingredient, looked up by name, from the list
func (s *IngredientService) RemoveIngredient(ctx context.Context, listID, ingredient string) (*models.IngredientList, error) {
	id, ing, err := s.resolve(ctx, listID, ingredient)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.RemoveIngredient(ctx, id, ing)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Removed ingredient",
		zap.String("ingredient_list_id", id.String()),
		zap.String("ingredient", ing.Name),
		zap.Int("size", len(list.Items)),
	)
	return list, nil
}

// resolve validates the arguments shared by add and remove. A missing list is
// reported before an unknown ingredient.
func (s *IngredientService) resolve(ctx context.Context, listID, ingredient string) (uuid.UUID, *models.Ingredient, error) {
	id, err := parseID(listID, "ingredientListId")
	if err != nil {
		return uuid.Nil, nil, err
	}
	if strings.TrimSpace(ingredient) == "" {
		return uuid.Nil, nil, apperrors.NewBadRequestError("ingredient name is required")
	}
	if _, err := s.repo.GetIngredientList(ctx, id); err != nil {
		return uuid.Nil, nil, err
	}

	ing, err := s.repo.FindIngredientByName(ctx, ingredient)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, ing, nil
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequestError(field + " is not a valid ID").WithCause(err)
	}
	return id, nil
}

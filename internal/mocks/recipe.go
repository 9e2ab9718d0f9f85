package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockRecipeCache is a mock implementation of the recipe cache
type MockRecipeCache struct {
	mock.Mock
}

// Get mocks the Get method
func (m *MockRecipeCache) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Recipe), args.Bool(1), args.Error(2)
}

// Set mocks the Set method
func (m *MockRecipeCache) Set(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeService) CreateRecipe(ctx context.Context, listID string) (*models.Recipe, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
)

// IIngredientService defines the interface for catalog and ingredient list operations
type IIngredientService interface {
	GetIngredients(ctx context.Context, category *string) ([]models.Ingredient, error)
	StartIngredientSelection(ctx context.Context) (*models.IngredientList, error)
	GetIngredientList(ctx context.Context, listID string) (*models.IngredientList, error)
	AddIngredient(ctx context.Context, listID, ingredient string) (*models.IngredientList, error)
	RemoveIngredient(ctx context.Context, listID, ingredient string) (*models.IngredientList, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, listID string) (*models.Recipe, error)
	GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error)
}

// LLMServiceInterface is a chat-completion backend
type LLMServiceInterface interface {
	Complete(ctx context.Context, prompt Prompt) (*Completion, error)
	Model() string
}

// GenerationLimiter admits or rejects a model call for the caller in ctx
type GenerationLimiter interface {
	Admit(ctx context.Context) error
}

// RecipeCache stores recipes by id
type RecipeCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, bool, error)
	Set(ctx context.Context, recipe *models.Recipe) error
}

// IngredientRepository is the persistence used by IngredientService
type IngredientRepository interface {
	ListIngredients(ctx context.Context, category *string) ([]models.Ingredient, error)
	FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error)
	CreateIngredientList(ctx context.Context) (*models.IngredientList, error)
	GetIngredientList(ctx context.Context, id uuid.UUID) (*models.IngredientList, error)
	AddIngredient(ctx context.Context, listID uuid.UUID, ingredient *models.Ingredient) (*models.IngredientList, error)
	RemoveIngredient(ctx context.Context, listID uuid.UUID, ingredient *models.Ingredient) (*models.IngredientList, error)
}

// RecipeRepository is the persistence used by RecipeService
type RecipeRepository interface {
	GetIngredientList(ctx context.Context, id uuid.UUID) (*models.IngredientList, error)
	FindIngredientsByNames(ctx context.Context, names []string) ([]models.Ingredient, error)
	SaveRecipe(ctx context.Context, recipe *models.Recipe, listIngredients []uuid.UUID) error
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
}

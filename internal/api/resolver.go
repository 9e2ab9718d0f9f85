package api

import (
	"context"
	"time"

	"github.com/graph-gophers/graphql-go"
	"github.com/pageza/alchemorsel-recipes/backend/internal/apperrors"
	"github.com/pageza/alchemorsel-recipes/backend/internal/metrics"
	"github.com/pageza/alchemorsel-recipes/backend/internal/middleware"
	"github.com/pageza/alchemorsel-recipes/backend/internal/service"
	"go.uber.org/zap"
)

// RecipeLimiter reports a client's recipe creation budget
type RecipeLimiter interface {
	GetRemainingRequests(ctx context.Context, client string) (int, time.Time, error)
	Config() middleware.RateLimitConfig
}

// Resolver is the GraphQL root resolver for queries and mutations
type Resolver struct {
	ingredients service.IIngredientService
	recipes     service.IRecipeService
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewResolver creates the root resolver. m may be nil.
func NewResolver(ingredients service.IIngredientService, recipes service.IRecipeService, m *metrics.Metrics, logger *zap.Logger) *Resolver {
	return &Resolver{
		ingredients: ingredients,
		recipes:     recipes,
		metrics:     m,
		logger:      logger,
	}
}

func (r *Resolver) GetIngredients(ctx context.Context, args struct{ Category *string }) ([]*ingredientResolver, error) {
	ingredients, err := r.ingredients.GetIngredients(ctx, args.Category)
	r.observe("getIngredients", err)
	if err != nil {
		return nil, err
	}

	out := make([]*ingredientResolver, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, newIngredientResolver(ing))
	}
	return out, nil
}

func (r *Resolver) GetIngredientList(ctx context.Context, args struct{ IngredientListID graphql.ID }) (*ingredientListResolver, error) {
	list, err := r.ingredients.GetIngredientList(ctx, string(args.IngredientListID))
	r.observe("getIngredientList", err)
	if err != nil {
		return nil, err
	}
	return newIngredientListResolver(list), nil
}

func (r *Resolver) GetRecipe(ctx context.Context, args struct{ RecipeID graphql.ID }) (*recipeResolver, error) {
	recipe, err := r.recipes.GetRecipe(ctx, string(args.RecipeID))
	r.observe("getRecipe", err)
	if err != nil {
		return nil, err
	}
	return &recipeResolver{recipe: recipe}, nil
}

func (r *Resolver) StartIngredientSelection(ctx context.Context) (*ingredientListResolver, error) {
	list, err := r.ingredients.StartIngredientSelection(ctx)
	r.observe("startIngredientSelection", err)
	if err != nil {
		return nil, err
	}
	return newIngredientListResolver(list), nil
}

type ingredientArgs struct {
	IngredientListID graphql.ID
	Ingredient       string
}

func (r *Resolver) AddIngredient(ctx context.Context, args ingredientArgs) (*ingredientListResolver, error) {
	list, err := r.ingredients.AddIngredient(ctx, string(args.IngredientListID), args.Ingredient)
	r.observe("addIngredient", err)
	if err != nil {
		return nil, err
	}
	return newIngredientListResolver(list), nil
}

func (r *Resolver) RemoveIngredient(ctx context.Context, args ingredientArgs) (*ingredientListResolver, error) {
	list, err := r.ingredients.RemoveIngredient(ctx, string(args.IngredientListID), args.Ingredient)
	r.observe("removeIngredient", err)
	if err != nil {
		return nil, err
	}
	return newIngredientListResolver(list), nil
}

func (r *Resolver) CreateRecipe(ctx context.Context, args struct{ IngredientListID graphql.ID }) (*recipeResolver, error) {
	recipe, err := r.recipes.CreateRecipe(ctx, string(args.IngredientListID))
	r.observe("createRecipe", err)
	if err != nil {
		return nil, err
	}
	return &recipeResolver{recipe: recipe}, nil
}

func (r *Resolver) observe(operation string, err error) {
	r.metrics.ObserveOperation(operation, err)
	if err == nil {
		return
	}
	switch apperrors.GetCode(err) {
	case apperrors.CodeInternal, apperrors.CodeDatabaseError, apperrors.CodeExternalServiceError:
		r.logger.Error("GraphQL operation failed", zap.String("operation", operation), zap.Error(err))
	default:
		r.logger.Debug("GraphQL operation rejected", zap.String("operation", operation), zap.Error(err))
	}
}

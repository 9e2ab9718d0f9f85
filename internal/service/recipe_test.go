package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/apperrors"
	"github.com/pageza/alchemorsel-recipes/backend/internal/metrics"
	"github.com/pageza/alchemorsel-recipes/backend/internal/mocks"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"github.com/pageza/alchemorsel-recipes/backend/internal/repository"
	"github.com/pageza/alchemorsel-recipes/backend/internal/service"
	"github.com/pageza/alchemorsel-recipes/backend/internal/testhelpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recipeFixture struct {
	ingredients *service.IngredientService
	recipes     *service.RecipeService
	llm         *mocks.MockLLMService
	cache       *mocks.MockRecipeCache
}

func newRecipeFixture(t *testing.T, withCache bool) *recipeFixture {
	db := testhelpers.SetupSQLiteDB(t)
	testhelpers.SeedCatalog(t, db)
	repo := repository.NewManager(db)

	f := &recipeFixture{
		ingredients: service.NewIngredientService(repo, zap.NewNop()),
		llm:         new(mocks.MockLLMService),
	}
	var cache service.RecipeCache
	if withCache {
		f.cache = new(mocks.MockRecipeCache)
		cache = f.cache
	}
	f.recipes = service.NewRecipeService(repo, f.llm, cache, metrics.New(prometheus.NewRegistry()), zap.NewNop())
	return f
}

func (f *recipeFixture) list(t *testing.T, names ...string) string {
	ctx := context.Background()
	list, err := f.ingredients.StartIngredientSelection(ctx)
	require.NoError(t, err)
	for _, name := range names {
		_, err = f.ingredients.AddIngredient(ctx, list.ID.String(), name)
		require.NoError(t, err)
	}
	return list.ID.String()
}

func snapshotNames(s models.IngredientSnapshot) []string {
	out := []string{}
	for _, ing := range s {
		out = append(out, ing.Name)
	}
	return out
}

func TestRecipeService_CreateRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("should create recipe from list", func(t *testing.T) {
		f := newRecipeFixture(t, false)
		listID := f.list(t, "Steak", "Garlic")

		f.llm.On("Complete", mock.Anything, mock.MatchedBy(func(p service.Prompt) bool {
			return p.User == "Create a recipe using these ingredients:\n- Steak\n- Garlic\n"
		})).Return(mocks.Completion(mocks.RecipeResponse), nil).Once()

		recipe, err := f.recipes.CreateRecipe(ctx, listID)
		require.NoError(t, err)

		assert.Equal(t, "Garlic Butter Steak", recipe.Name)
		assert.Len(t, recipe.Instructions, 4)
		assert.Equal(t, "Pat the steak dry and season with salt and black pepper.", recipe.Instructions[0])
		assert.NotEmpty(t, recipe.Article)
		assert.Equal(t, "deepseek-chat", recipe.Model)
		assert.Equal(t, []string{"Steak", "Garlic", "Butter", "Salt", "Black Pepper"}, snapshotNames(recipe.Ingredients))
		f.llm.AssertExpectations(t)

		stored, err := f.recipes.GetRecipe(ctx, recipe.ID.String())
		require.NoError(t, err)
		assert.Equal(t, recipe.Name, stored.Name)
		assert.Equal(t, recipe.Ingredients, stored.Ingredients)

		list, err := f.ingredients.GetIngredientList(ctx, listID)
		require.NoError(t, err)
		assert.True(t, list.Finalized())
	})

	t.Run("should reject a finalized list", func(t *testing.T) {
		f := newRecipeFixture(t, false)
		listID := f.list(t, "Steak")
		f.llm.On("Complete", mock.Anything, mock.Anything).Return(mocks.Completion(mocks.RecipeResponse), nil).Once()

		_, err := f.recipes.CreateRecipe(ctx, listID)
		require.NoError(t, err)

		_, err = f.recipes.CreateRecipe(ctx, listID)
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

		_, err = f.ingredients.AddIngredient(ctx, listID, "Garlic")
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
		f.llm.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("should reject an empty list", func(t *testing.T) {
		f := newRecipeFixture(t, false)
		listID := f.list(t)

		_, err := f.recipes.CreateRecipe(ctx, listID)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
		f.llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("should report unknown and malformed ids", func(t *testing.T) {
		f := newRecipeFixture(t, false)

		_, err := f.recipes.CreateRecipe(ctx, uuid.NewString())
		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

		_, err = f.recipes.CreateRecipe(ctx, "42")
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})

	t.Run("should surface model failures", func(t *testing.T) {
		f := newRecipeFixture(t, false)
		listID := f.list(t, "Steak")
		f.llm.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

		_, err := f.recipes.CreateRecipe(ctx, listID)
		assert.True(t, apperrors.Is(err, apperrors.CodeExternalServiceError))

		list, err := f.ingredients.GetIngredientList(ctx, listID)
		require.NoError(t, err)
		assert.False(t, list.Finalized(), "a failed generation leaves the list open")
	})

	t.Run("should reject malformed model output", func(t *testing.T) {
		f := newRecipeFixture(t, false)
		listID := f.list(t, "Steak")
		f.llm.On("Complete", mock.Anything, mock.Anything).Return(mocks.Completion("Sorry, I can only talk about cooking."), nil).Once()

		_, err := f.recipes.CreateRecipe(ctx, listID)
		assert.True(t, apperrors.Is(err, apperrors.CodeExternalServiceError))
		assert.ErrorIs(t, err, service.ErrMalformedResponse)
	})

	t.Run("should reject a list edited during generation", func(t *testing.T) {
		f := newRecipeFixture(t, false)
		listID := f.list(t, "Steak", "Garlic")

		f.llm.On("Complete", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			_, err := f.ingredients.AddIngredient(ctx, listID, "Olive Oil")
			require.NoError(t, err)
		}).Return(mocks.Completion(mocks.RecipeResponse), nil).Once()

		_, err := f.recipes.CreateRecipe(ctx, listID)
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

		list, err := f.ingredients.GetIngredientList(ctx, listID)
		require.NoError(t, err)
		assert.False(t, list.Finalized())
		assert.Len(t, list.Items, 3)

		f.llm.On("Complete", mock.Anything, mock.Anything).Return(mocks.Completion(mocks.RecipeResponse), nil).Once()
		recipe, err := f.recipes.CreateRecipe(ctx, listID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(recipe.Ingredients), len(list.Items))
		assert.Equal(t, []string{"Steak", "Garlic", "Olive Oil"}, snapshotNames(recipe.Ingredients)[:3])
	})

	t.Run("should consult the limiter only for valid requests", func(t *testing.T) {
		f := newRecipeFixture(t, false)
		limiter := new(mocks.MockGenerationLimiter)
		f.recipes.WithLimiter(limiter)

		_, err := f.recipes.CreateRecipe(ctx, f.list(t))
		assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
		_, err = f.recipes.CreateRecipe(ctx, uuid.NewString())
		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
		limiter.AssertNotCalled(t, "Admit", mock.Anything)

		listID := f.list(t, "Steak")
		limiter.On("Admit", mock.Anything).Return(apperrors.NewTooManyRequestsError(1, time.Hour, time.Now().Add(time.Hour))).Once()
		_, err = f.recipes.CreateRecipe(ctx, listID)
		assert.True(t, apperrors.Is(err, apperrors.CodeTooManyRequests))
		f.llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)

		limiter.On("Admit", mock.Anything).Return(errors.New("redis: connection refused")).Once()
		f.llm.On("Complete", mock.Anything, mock.Anything).Return(mocks.Completion(mocks.RecipeResponse), nil).Once()
		recipe, err := f.recipes.CreateRecipe(ctx, listID)
		require.NoError(t, err, "a limiter outage does not block generation")
		assert.Equal(t, "Garlic Butter Steak", recipe.Name)
		limiter.AssertExpectations(t)
	})

	t.Run("should fail without a model client", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDB(t)
		testhelpers.SeedCatalog(t, db)
		repo := repository.NewManager(db)
		ingredients := service.NewIngredientService(repo, zap.NewNop())
		recipes := service.NewRecipeService(repo, nil, nil, nil, zap.NewNop())

		list, err := ingredients.StartIngredientSelection(ctx)
		require.NoError(t, err)
		_, err = ingredients.AddIngredient(ctx, list.ID.String(), "Steak")
		require.NoError(t, err)

		_, err = recipes.CreateRecipe(ctx, list.ID.String())
		assert.True(t, apperrors.Is(err, apperrors.CodeExternalServiceError))
	})
}

func TestRecipeService_GetRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("should serve cached recipes", func(t *testing.T) {
		f := newRecipeFixture(t, true)
		cached := &models.Recipe{ID: uuid.New(), Name: "Cached"}
		f.cache.On("Get", mock.Anything, cached.ID).Return(cached, true, nil).Once()

		recipe, err := f.recipes.GetRecipe(ctx, cached.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Cached", recipe.Name)
		f.cache.AssertExpectations(t)
	})

	t.Run("should fill the cache on a miss", func(t *testing.T) {
		f := newRecipeFixture(t, true)
		listID := f.list(t, "Steak")
		f.llm.On("Complete", mock.Anything, mock.Anything).Return(mocks.Completion(mocks.RecipeResponse), nil).Once()
		f.cache.On("Set", mock.Anything, mock.AnythingOfType("*models.Recipe")).Return(nil)

		created, err := f.recipes.CreateRecipe(ctx, listID)
		require.NoError(t, err)

		f.cache.On("Get", mock.Anything, created.ID).Return(nil, false, nil).Once()
		recipe, err := f.recipes.GetRecipe(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, created.ID, recipe.ID)
		f.cache.AssertNumberOfCalls(t, "Set", 2)
	})

	t.Run("should fall back to the database when the cache fails", func(t *testing.T) {
		f := newRecipeFixture(t, true)
		id := uuid.New()
		f.cache.On("Get", mock.Anything, id).Return(nil, false, errors.New("redis down")).Once()

		_, err := f.recipes.GetRecipe(ctx, id.String())
		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	})

	t.Run("should reject malformed ids", func(t *testing.T) {
		f := newRecipeFixture(t, false)
		_, err := f.recipes.GetRecipe(ctx, "recipe-1")
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})
}

package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/apperrors"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"github.com/pageza/alchemorsel-recipes/backend/internal/repository"
	"github.com/pageza/alchemorsel-recipes/backend/internal/service"
	"github.com/pageza/alchemorsel-recipes/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ingredientNames(list *models.IngredientList) []string {
	out := []string{}
	for _, ing := range list.Ingredients() {
		out = append(out, ing.Name)
	}
	return out
}

func newIngredientService(t *testing.T) *service.IngredientService {
	db := testhelpers.SetupSQLiteDB(t)
	testhelpers.SeedCatalog(t, db)
	return service.NewIngredientService(repository.NewManager(db), zap.NewNop())
}

func TestIngredientService_GetIngredients(t *testing.T) {
	svc := newIngredientService(t)
	ctx := context.Background()

	t.Run("should list the whole catalog", func(t *testing.T) {
		all, err := svc.GetIngredients(ctx, nil)
		require.NoError(t, err)
		assert.Greater(t, len(all), 100)
	})

	t.Run("should filter by category", func(t *testing.T) {
		category := "Meat"
		meats, err := svc.GetIngredients(ctx, &category)
		require.NoError(t, err)
		require.NotEmpty(t, meats)
		for _, ing := range meats {
			assert.Equal(t, "Meat", ing.Category)
		}
	})
}

func TestIngredientService_Selection(t *testing.T) {
	svc := newIngredientService(t)
	ctx := context.Background()

	list, err := svc.StartIngredientSelection(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	listID := list.ID.String()

	t.Run("should add ingredients in order", func(t *testing.T) {
		for _, name := range []string{"Olive Oil", "steak", "GARLIC"} {
			list, err = svc.AddIngredient(ctx, listID, name)
			require.NoError(t, err)
		}
		assert.Equal(t, []string{"Olive Oil", "Steak", "Garlic"}, ingredientNames(list))
	})

	t.Run("should ignore duplicate adds", func(t *testing.T) {
		list, err = svc.AddIngredient(ctx, listID, "Steak")
		require.NoError(t, err)
		assert.Len(t, list.Items, 3)
	})

	t.Run("should remove and keep order", func(t *testing.T) {
		list, err = svc.RemoveIngredient(ctx, listID, "Olive Oil")
		require.NoError(t, err)
		assert.Equal(t, []string{"Steak", "Garlic"}, ingredientNames(list))
	})

	t.Run("should return the stored list", func(t *testing.T) {
		stored, err := svc.GetIngredientList(ctx, listID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Steak", "Garlic"}, ingredientNames(stored))
	})
}

func TestIngredientService_Errors(t *testing.T) {
	svc := newIngredientService(t)
	ctx := context.Background()

	list, err := svc.StartIngredientSelection(ctx)
	require.NoError(t, err)

	tests := []struct {
		name       string
		listID     string
		ingredient string
		code       apperrors.ErrorCode
	}{
		{"malformed list id", "not-a-uuid", "Steak", apperrors.CodeBadRequest},
		{"unknown list", uuid.NewString(), "Steak", apperrors.CodeNotFound},
		{"unknown ingredient", list.ID.String(), "Unobtainium", apperrors.CodeNotFound},
		{"blank ingredient", list.ID.String(), "  ", apperrors.CodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddIngredient(ctx, tt.listID, tt.ingredient)
			assert.Equal(t, tt.code, apperrors.GetCode(err))

			_, err = svc.RemoveIngredient(ctx, tt.listID, tt.ingredient)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
		})
	}

	t.Run("unknown list on read", func(t *testing.T) {
		_, err := svc.GetIngredientList(ctx, uuid.NewString())
		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	})
}

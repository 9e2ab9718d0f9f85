package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"github.com/pageza/alchemorsel-recipes/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeCache(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	c := NewRecipeCache(client, time.Minute)
	ctx := context.Background()

	recipe := &models.Recipe{
		ID:               uuid.New(),
		Name:             "Garlic Steak",
		IngredientListID: uuid.New(),
		Ingredients:      models.IngredientSnapshot{{ID: uuid.NewString(), Name: "Steak", Category: "Meat"}},
		Instructions:     models.JSONBStringArray{"Sear", "Rest"},
		Article:          "Steak night.",
	}

	_, found, err := c.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, recipe))

	cached, found, err := c.Get(ctx, recipe.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, recipe.Name, cached.Name)
	assert.Equal(t, recipe.Instructions, cached.Instructions)
	assert.Equal(t, recipe.Ingredients, cached.Ingredients)

	ttl := client.TTL(ctx, recipeKey(recipe.ID)).Val()
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestNewRecipeCacheDefaultTTL(t *testing.T) {
	c := NewRecipeCache(nil, 0)
	assert.Equal(t, DefaultRecipeTTL, c.ttl)
}

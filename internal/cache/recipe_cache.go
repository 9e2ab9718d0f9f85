// Package cache keeps generated recipes in Redis. Recipes never change after
// creation so entries are only ever expired, never invalidated.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultRecipeTTL is how long a recipe stays cached
const DefaultRecipeTTL = 24 * time.Hour

// RecipeCache is a Redis-backed recipe store keyed by id
type RecipeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecipeCache creates a cache; a non-positive ttl uses DefaultRecipeTTL
func NewRecipeCache(client *redis.Client, ttl time.Duration) *RecipeCache {
	if ttl <= 0 {
		ttl = DefaultRecipeTTL
	}
	return &RecipeCache{client: client, ttl: ttl}
}

func recipeKey(id uuid.UUID) string {
	return fmt.Sprintf("recipe:%s", id)
}

// Get returns the cached recipe and whether it was present
func (c *RecipeCache) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, bool, error) {
	data, err := c.client.Get(ctx, recipeKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read recipe from Redis: %w", err)
	}

	var recipe models.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached recipe: %w", err)
	}
	return &recipe, true, nil
}

// Set stores recipe under its id
func (c *RecipeCache) Set(ctx context.Context, recipe *models.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	if err := c.client.Set(ctx, recipeKey(recipe.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save recipe to Redis: %w", err)
	}
	return nil
}

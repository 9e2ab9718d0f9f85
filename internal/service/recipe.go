package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/apperrors"
	"github.com/pageza/alchemorsel-recipes/backend/internal/metrics"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"go.uber.org/zap"
)

const llmServiceName = "language model"

// RecipeService generates recipes from ingredient lists and serves them
type RecipeService struct {
	repo    RecipeRepository
	llm     LLMServiceInterface
	cache   RecipeCache
	limiter GenerationLimiter
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRecipeService creates a new RecipeService instance. cache and m may be nil.
func NewRecipeService(repo RecipeRepository, llm LLMServiceInterface, cache RecipeCache, m *metrics.Metrics, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		repo:    repo,
		llm:     llm,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// WithLimiter throttles model calls. Only requests that pass validation and
// would reach the model are counted.
func (s *RecipeService) WithLimiter(limiter GenerationLimiter) *RecipeService {
	s.limiter = limiter
	return s
}

// CreateRecipe asks the language model for a recipe made from the list's
// ingredients, stores it and finalizes the list.
func (s *RecipeService) CreateRecipe(ctx context.Context, listID string) (*models.Recipe, error) {
	id, err := parseID(listID, "ingredientListId")
	if err != nil {
		return nil, err
	}

	list, err := s.repo.GetIngredientList(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.Finalized() {
		return nil, apperrors.NewListFinalizedError(id.String())
	}
	ingredients := list.Ingredients()
	if len(ingredients) == 0 {
		return nil, apperrors.NewValidationError("ingredient list has no ingredients")
	}
	if s.llm == nil {
		return nil, apperrors.NewExternalServiceError(llmServiceName, nil).
			WithMetadata("reason", "language model is not configured")
	}

	if err := s.admit(ctx); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(ingredients))
	ids := make([]uuid.UUID, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
		ids = append(ids, ing.ID)
	}

	start := time.Now()
	completion, err := s.llm.Complete(ctx, BuildRecipePrompt(names))
	s.metrics.ObserveLLMRequest(time.Since(start), err)
	if err != nil {
		return nil, apperrors.NewExternalServiceError(llmServiceName, err)
	}

	parsed, err := ParseRecipeResponse(completion.Content)
	if err != nil {
		s.logger.Warn("Discarding malformed recipe response",
			zap.String("ingredient_list_id", id.String()),
			zap.Int("content_length", len(completion.Content)),
			zap.Error(err),
		)
		return nil, apperrors.NewMalformedResponseError(llmServiceName, err)
	}

	snapshot, err := s.snapshot(ctx, ingredients, parsed.AdditionalIngredients)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:             parsed.Name,
		IngredientListID: id,
		Ingredients:      snapshot,
		Instructions:     models.JSONBStringArray(parsed.Instructions),
		Article:          parsed.Article,
		Model:            completion.Model,
	}
	if err := s.repo.SaveRecipe(ctx, recipe, ids); err != nil {
		return nil, err
	}

	s.metrics.RecipeGenerated()
	s.logger.Info("Recipe created",
		zap.String("recipe_id", recipe.ID.String()),
		zap.String("ingredient_list_id", id.String()),
		zap.Int("ingredients", len(snapshot)),
		zap.Int("steps", len(recipe.Instructions)),
	)
	s.store(ctx, recipe)
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID, preferring the cache
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error) {
	id, err := parseID(recipeID, "recipeId")
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, id)
		switch {
		case err != nil:
			s.metrics.CacheLookup("error")
			s.logger.Warn("Recipe cache read failed", zap.String("recipe_id", id.String()), zap.Error(err))
		case found:
			s.metrics.CacheLookup("hit")
			return cached, nil
		default:
			s.metrics.CacheLookup("miss")
		}
	}

	recipe, err := s.repo.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, recipe)
	return recipe, nil
}

// snapshot freezes the list's ingredients followed by any extra catalog
// ingredients the model added, in the order the model named them.
func (s *RecipeService) snapshot(ctx context.Context, ingredients []models.Ingredient, extras []string) (models.IngredientSnapshot, error) {
	out := make(models.IngredientSnapshot, 0, len(ingredients)+len(extras))
	present := make(map[string]struct{}, len(ingredients)+len(extras))
	for _, ing := range ingredients {
		out = append(out, ing.Snapshot())
		present[ing.ID.String()] = struct{}{}
	}
	if len(extras) == 0 {
		return out, nil
	}

	found, err := s.repo.FindIngredientsByNames(ctx, extras)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]models.Ingredient, len(found))
	for _, ing := range found {
		byName[strings.ToLower(ing.Name)] = ing
	}

	for _, name := range extras {
		ing, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, dup := present[ing.ID.String()]; dup {
			continue
		}
		present[ing.ID.String()] = struct{}{}
		out = append(out, ing.Snapshot())
	}
	return out, nil
}

// admit applies the limiter. Limiter failures are logged and the request is
// let through.
func (s *RecipeService) admit(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	err := s.limiter.Admit(ctx)
	if err == nil {
		return nil
	}
	if apperrors.Is(err, apperrors.CodeTooManyRequests) {
		return err
	}
	s.logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
	return nil
}

func (s *RecipeService) store(ctx context.Context, recipe *models.Recipe) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, recipe); err != nil {
		s.logger.Warn("Recipe cache write failed", zap.String("recipe_id", recipe.ID.String()), zap.Error(err))
	}
}

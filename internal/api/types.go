package api

import (
	"github.com/graph-gophers/graphql-go"
	"github.com/pageza/alchemorsel-recipes/backend/internal/apperrors"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"github.com/pageza/alchemorsel-recipes/backend/internal/service"
)

type ingredientResolver struct {
	ing models.SnapshotIngredient
}

func newIngredientResolver(ing models.Ingredient) *ingredientResolver {
	return &ingredientResolver{ing: ing.Snapshot()}
}

func (r *ingredientResolver) ID() graphql.ID { return graphql.ID(r.ing.ID) }
func (r *ingredientResolver) Name() string { return r.ing.Name }
func (r *ingredientResolver) Category() string { return r.ing.Category }

// ingredientListResolver serves both live lists and the snapshot frozen on a recipe
type ingredientListResolver struct {
	id          string
	ingredients []models.SnapshotIngredient
}

func newIngredientListResolver(list *models.IngredientList) *ingredientListResolver {
	ingredients := list.Ingredients()
	out := &ingredientListResolver{
		id:          list.ID.String(),
		ingredients: make([]models.SnapshotIngredient, 0, len(ingredients)),
	}
	for _, ing := range ingredients {
		out.ingredients = append(out.ingredients, ing.Snapshot())
	}
	return out
}

func (r *ingredientListResolver) ID() graphql.ID {
	return graphql.ID(r.id)
}

func (r *ingredientListResolver) Ingredients() []*ingredientResolver {
	out := make([]*ingredientResolver, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		out = append(out, &ingredientResolver{ing: ing})
	}
	return out
}

type recipeResolver struct {
	recipe *models.Recipe
}

func (r *recipeResolver) ID() graphql.ID {
	return graphql.ID(r.recipe.ID.String())
}

func (r *recipeResolver) Name() string {
	return r.recipe.Name
}

func (r *recipeResolver) Ingredients() *ingredientListResolver {
	return &ingredientListResolver{
		id:          r.recipe.IngredientListID.String(),
		ingredients: r.recipe.Ingredients,
	}
}

func (r *recipeResolver) Instructions() []string {
	if r.recipe.Instructions == nil {
		return []string{}
	}
	return r.recipe.Instructions
}

func (r *recipeResolver) Article() string {
	return r.recipe.Article
}

func (r *recipeResolver) ArticleHTML() (string, error) {
	html, err := service.RenderArticleHTML(r.recipe.Article)
	if err != nil {
		return "", apperrors.NewInternalError("failed to render recipe article").WithCause(err)
	}
	return html, nil
}

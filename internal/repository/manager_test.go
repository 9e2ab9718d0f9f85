package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/apperrors"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"github.com/pageza/alchemorsel-recipes/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func names(list *models.IngredientList) []string {
	out := []string{}
	for _, ing := range list.Ingredients() {
		out = append(out, ing.Name)
	}
	return out
}

func seedBasics(t *testing.T, db *gorm.DB) (oil, steak, garlic models.Ingredient) {
	oil = testhelpers.SeedIngredient(t, db, "Olive Oil", "Oil")
	steak = testhelpers.SeedIngredient(t, db, "Steak", "Meat")
	garlic = testhelpers.SeedIngredient(t, db, "Garlic", "Vegetable")
	return
}

func TestListIngredients(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	seedBasics(t, db)
	m := NewManager(db)
	ctx := context.Background()

	all, err := m.ListIngredients(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Meat", all[0].Category)
	assert.Equal(t, "Olive Oil", all[1].Name)
	assert.Equal(t, "Garlic", all[2].Name)

	category := "vegetable"
	filtered, err := m.ListIngredients(ctx, &category)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Garlic", filtered[0].Name)

	missing := "Dessert"
	none, err := m.ListIngredients(ctx, &missing)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindIngredientByName(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	_, steak, _ := seedBasics(t, db)
	m := NewManager(db)

	found, err := m.FindIngredientByName(context.Background(), "  sTeAk ")
	require.NoError(t, err)
	assert.Equal(t, steak.ID, found.ID)

	_, err = m.FindIngredientByName(context.Background(), "Unobtainium")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestFindIngredientsByNames(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	seedBasics(t, db)
	m := NewManager(db)

	found, err := m.FindIngredientsByNames(context.Background(), []string{"garlic", "Salt", " ", "OLIVE OIL"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	empty, err := m.FindIngredientsByNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpsertIngredients(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	m := NewManager(db)
	ctx := context.Background()

	require.NoError(t, m.UpsertIngredients(ctx, []models.Ingredient{
		{Name: "Garlic", Category: "Spice"},
		{Name: "Steak", Category: "Meat"},
	}))
	before, err := m.FindIngredientByName(ctx, "Garlic")
	require.NoError(t, err)

	require.NoError(t, m.UpsertIngredients(ctx, []models.Ingredient{
		{Name: "Garlic", Category: "Vegetable"},
	}))

	after, err := m.FindIngredientByName(ctx, "Garlic")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "Vegetable", after.Category)

	count, err := m.CountIngredients(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestIngredientListWorkflow(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	oil, steak, garlic := seedBasics(t, db)
	m := NewManager(db)
	ctx := context.Background()

	list, err := m.CreateIngredientList(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, list.ID)
	assert.Empty(t, list.Items)

	for _, ing := range []models.Ingredient{oil, steak, garlic} {
		list, err = m.AddIngredient(ctx, list.ID, &ing)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"Olive Oil", "Steak", "Garlic"}, names(list))

	list, err = m.AddIngredient(ctx, list.ID, &steak)
	require.NoError(t, err)
	assert.Equal(t, []string{"Olive Oil", "Steak", "Garlic"}, names(list), "duplicate add is a no-op")

	list, err = m.RemoveIngredient(ctx, list.ID, &oil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Steak", "Garlic"}, names(list))

	list, err = m.RemoveIngredient(ctx, list.ID, &oil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Steak", "Garlic"}, names(list), "removing an absent ingredient is a no-op")

	list, err = m.AddIngredient(ctx, list.ID, &oil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Steak", "Garlic", "Olive Oil"}, names(list), "re-added ingredient goes to the end")

	reloaded, err := m.GetIngredientList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, names(list), names(reloaded))
}

func TestIngredientListNotFound(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	_, steak, _ := seedBasics(t, db)
	m := NewManager(db)
	ctx := context.Background()
	missing := uuid.New()

	_, err := m.GetIngredientList(ctx, missing)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	_, err = m.AddIngredient(ctx, missing, &steak)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	_, err = m.RemoveIngredient(ctx, missing, &steak)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestSaveRecipeFinalizesList(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	oil, steak, _ := seedBasics(t, db)
	m := NewManager(db)
	ctx := context.Background()

	list, err := m.CreateIngredientList(ctx)
	require.NoError(t, err)
	list, err = m.AddIngredient(ctx, list.ID, &steak)
	require.NoError(t, err)

	recipe := &models.Recipe{
		Name:             "Seared Steak",
		IngredientListID: list.ID,
		Ingredients:      models.IngredientSnapshot{steak.Snapshot()},
		Instructions:     models.JSONBStringArray{"Season the steak", "Sear on high heat"},
		Article:          "A quick weeknight steak.",
		Model:            "deepseek-chat",
	}
	require.NoError(t, m.SaveRecipe(ctx, recipe, []uuid.UUID{steak.ID}))
	assert.NotEqual(t, uuid.Nil, recipe.ID)

	stored, err := m.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seared Steak", stored.Name)
	assert.Equal(t, models.JSONBStringArray{"Season the steak", "Sear on high heat"}, stored.Instructions)
	assert.Equal(t, models.IngredientSnapshot{steak.Snapshot()}, stored.Ingredients)

	finalized, err := m.GetIngredientList(ctx, list.ID)
	require.NoError(t, err)
	assert.True(t, finalized.Finalized())

	_, err = m.AddIngredient(ctx, list.ID, &oil)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	_, err = m.RemoveIngredient(ctx, list.ID, &steak)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	again := &models.Recipe{Name: "Again", IngredientListID: list.ID, Article: "x"}
	err = m.SaveRecipe(ctx, again, []uuid.UUID{steak.ID})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestSaveRecipeRejectsEditedList(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	oil, steak, garlic := seedBasics(t, db)
	m := NewManager(db)
	ctx := context.Background()

	list, err := m.CreateIngredientList(ctx)
	require.NoError(t, err)
	_, err = m.AddIngredient(ctx, list.ID, &steak)
	require.NoError(t, err)
	_, err = m.AddIngredient(ctx, list.ID, &garlic)
	require.NoError(t, err)

	newRecipe := func() *models.Recipe {
		return &models.Recipe{
			Name:             "Garlic Steak",
			IngredientListID: list.ID,
			Ingredients:      models.IngredientSnapshot{steak.Snapshot(), garlic.Snapshot()},
			Instructions:     models.JSONBStringArray{"Sear"},
			Article:          "Garlic and steak.",
		}
	}

	t.Run("added ingredient", func(t *testing.T) {
		_, err := m.AddIngredient(ctx, list.ID, &oil)
		require.NoError(t, err)

		err = m.SaveRecipe(ctx, newRecipe(), []uuid.UUID{steak.ID, garlic.ID})
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

		_, err = m.RemoveIngredient(ctx, list.ID, &oil)
		require.NoError(t, err)
	})

	t.Run("removed ingredient", func(t *testing.T) {
		err := m.SaveRecipe(ctx, newRecipe(), []uuid.UUID{oil.ID, steak.ID, garlic.ID})
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	})

	t.Run("reordered ingredients", func(t *testing.T) {
		err := m.SaveRecipe(ctx, newRecipe(), []uuid.UUID{garlic.ID, steak.ID})
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	})

	current, err := m.GetIngredientList(ctx, list.ID)
	require.NoError(t, err)
	assert.False(t, current.Finalized(), "a rejected save leaves the list open")

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, m.SaveRecipe(ctx, newRecipe(), []uuid.UUID{steak.ID, garlic.ID}))
}

func TestGetRecipeNotFound(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	m := NewManager(db)

	_, err := m.GetRecipe(context.Background(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestManagerPostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	oil, steak, garlic := seedBasics(t, db)
	m := NewManager(db)
	ctx := context.Background()

	list, err := m.CreateIngredientList(ctx)
	require.NoError(t, err)
	for _, ing := range []models.Ingredient{oil, steak, garlic} {
		list, err = m.AddIngredient(ctx, list.ID, &ing)
		require.NoError(t, err)
	}
	list, err = m.RemoveIngredient(ctx, list.ID, &oil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Steak", "Garlic"}, names(list))

	recipe := &models.Recipe{
		Name:             "Garlic Steak",
		IngredientListID: list.ID,
		Ingredients:      models.IngredientSnapshot{steak.Snapshot(), garlic.Snapshot()},
		Instructions:     models.JSONBStringArray{"Sear", "Baste with garlic"},
		Article:          "Garlic and steak.",
	}
	require.NoError(t, m.SaveRecipe(ctx, recipe, []uuid.UUID{steak.ID, garlic.ID}))

	stored, err := m.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Ingredients, 2)

	_, err = m.AddIngredient(ctx, list.ID, &oil)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

// Package repository holds the gorm persistence access for the ingredient
// catalog, ingredient lists and recipes.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/alchemorsel-recipes/backend/internal/apperrors"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Manager is the single persistence entry point used by the services
type Manager struct {
	db *gorm.DB
}

// NewManager creates a new Manager instance
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// DB exposes the underlying connection for health checks
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// ListIngredients returns the catalog ordered by category then name, optionally
// restricted to one category (case-insensitive).
func (m *Manager) ListIngredients(ctx context.Context, category *string) ([]models.Ingredient, error) {
	query := m.db.WithContext(ctx).Order("category ASC").Order("name ASC")
	if category != nil && strings.TrimSpace(*category) != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(strings.TrimSpace(*category)))
	}

	ingredients := []models.Ingredient{}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, apperrors.NewDatabaseError("list ingredients", err)
	}
	return ingredients, nil
}

// FindIngredientByName looks an ingredient up by catalog name, ignoring case
func (m *Manager) FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := m.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&ingredient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewIngredientNotFoundError(name)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("find ingredient", err)
	}
	return &ingredient, nil
}

// FindIngredientsByNames returns the catalog entries matching any of names.
// Unknown names are skipped.
func (m *Manager) FindIngredientsByNames(ctx context.Context, names []string) ([]models.Ingredient, error) {
	if len(names) == 0 {
		return []models.Ingredient{}, nil
	}
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			lowered = append(lowered, strings.ToLower(n))
		}
	}

	ingredients := []models.Ingredient{}
	if len(lowered) == 0 {
		return ingredients, nil
	}
	if err := m.db.WithContext(ctx).Where("LOWER(name) IN ?", lowered).Find(&ingredients).Error; err != nil {
		return nil, apperrors.NewDatabaseError("find ingredients", err)
	}
	return ingredients, nil
}

// CountIngredients returns the catalog size
func (m *Manager) CountIngredients(ctx context.Context) (int64, error) {
	var count int64
	if err := m.db.WithContext(ctx).Model(&models.Ingredient{}).Count(&count).Error; err != nil {
		return 0, apperrors.NewDatabaseError("count ingredients", err)
	}
	return count, nil
}

// UpsertIngredients inserts catalog entries, updating the category of names
// that already exist. Existing ids are kept.
func (m *Manager) UpsertIngredients(ctx context.Context, ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	err := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "updated_at"}),
		}).
		CreateInBatches(&ingredients, 100).Error
	if err != nil {
		return apperrors.NewDatabaseError("upsert ingredients", err)
	}
	return nil
}

// CreateIngredientList starts a new, empty list
func (m *Manager) CreateIngredientList(ctx context.Context) (*models.IngredientList, error) {
	list := models.IngredientList{Items: []models.IngredientListItem{}}
	if err := m.db.WithContext(ctx).Create(&list).Error; err != nil {
		return nil, apperrors.NewDatabaseError("create ingredient list", err)
	}
	return &list, nil
}

// GetIngredientList loads a list with its items in position order
func (m *Manager) GetIngredientList(ctx context.Context, id uuid.UUID) (*models.IngredientList, error) {
	return loadList(m.db.WithContext(ctx), id)
}

// AddIngredient appends ingredient to the list. Adding an ingredient already in
// the list leaves it unchanged.
func (m *Manager) AddIngredient(ctx context.Context, listID uuid.UUID, ingredient *models.Ingredient) (*models.IngredientList, error) {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOpenList(tx, listID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.IngredientListItem{}).
			Where("ingredient_list_id = ? AND ingredient_id = ?", listID, ingredient.ID).
			Count(&existing).Error; err != nil {
			return apperrors.NewDatabaseError("check ingredient list item", err)
		}
		if existing > 0 {
			return nil
		}

		var last int
		if err := tx.Model(&models.IngredientListItem{}).
			Where("ingredient_list_id = ?", listID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return apperrors.NewDatabaseError("read ingredient list position", err)
		}

		item := models.IngredientListItem{
			IngredientListID: listID,
			IngredientID:     ingredient.ID,
			Position:         last + 1,
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return apperrors.NewDatabaseError("add ingredient", err)
		}
		return touchList(tx, listID)
	})
	if err != nil {
		return nil, err
	}
	return m.GetIngredientList(ctx, listID)
}

// RemoveIngredient drops ingredient from the list. Removing an ingredient that
// is not in the list leaves it unchanged.
func (m *Manager) RemoveIngredient(ctx context.Context, listID uuid.UUID, ingredient *models.Ingredient) (*models.IngredientList, error) {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOpenList(tx, listID); err != nil {
			return err
		}

		res := tx.Where("ingredient_list_id = ? AND ingredient_id = ?", listID, ingredient.ID).
			Delete(&models.IngredientListItem{})
		if res.Error != nil {
			return apperrors.NewDatabaseError("remove ingredient", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return touchList(tx, listID)
	})
	if err != nil {
		return nil, err
	}
	return m.GetIngredientList(ctx, listID)
}

// SaveRecipe persists recipe and finalizes its source list in one transaction.
// listIngredients are the ingredient IDs, in order, the recipe was generated
// from. A list that was finalized or edited in the meantime yields a conflict.
func (m *Manager) SaveRecipe(ctx context.Context, recipe *models.Recipe, listIngredients []uuid.UUID) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOpenList(tx, recipe.IngredientListID); err != nil {
			return err
		}

		var current []uuid.UUID
		if err := tx.Model(&models.IngredientListItem{}).
			Where("ingredient_list_id = ?", recipe.IngredientListID).
			Order("position ASC").
			Pluck("ingredient_id", &current).Error; err != nil {
			return apperrors.NewDatabaseError("read ingredient list items", err)
		}
		if !sameIngredients(current, listIngredients) {
			return apperrors.NewListChangedError(recipe.IngredientListID.String())
		}

		if err := tx.Create(recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.NewListFinalizedError(recipe.IngredientListID.String())
			}
			return apperrors.NewDatabaseError("create recipe", err)
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.IngredientList{}).
			Where("id = ?", recipe.IngredientListID).
			Updates(map[string]interface{}{"finalized_at": now, "updated_at": now}).Error; err != nil {
			return apperrors.NewDatabaseError("finalize ingredient list", err)
		}
		return nil
	})
}

// GetRecipe retrieves a recipe by ID
func (m *Manager) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := m.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewRecipeNotFoundError(id.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get recipe", err)
	}
	return &recipe, nil
}

func loadList(db *gorm.DB, id uuid.UUID) (*models.IngredientList, error) {
	var list models.IngredientList
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Ingredient").
		First(&list, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewIngredientListNotFoundError(id.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get ingredient list", err)
	}
	if list.Items == nil {
		list.Items = []models.IngredientListItem{}
	}
	return &list, nil
}

// lockOpenList reads the list row inside tx, taking a row lock on PostgreSQL,
// and rejects finalized lists.
func lockOpenList(tx *gorm.DB, id uuid.UUID) (*models.IngredientList, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var list models.IngredientList
	err := query.First(&list, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewIngredientListNotFoundError(id.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("lock ingredient list", err)
	}
	if list.Finalized() {
		return nil, apperrors.NewListFinalizedError(id.String())
	}
	return &list, nil
}

func sameIngredients(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func touchList(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Model(&models.IngredientList{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error; err != nil {
		return apperrors.NewDatabaseError("update ingredient list", err)
	}
	return nil
}

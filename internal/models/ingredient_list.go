package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngredientList is the working set of an ingredient selection session. Items
// keep insertion order through Position.
type IngredientList struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	FinalizedAt *time.Time           `json:"finalized_at,omitempty"`
	Items       []IngredientListItem `gorm:"foreignKey:IngredientListID;constraint:OnDelete:CASCADE" json:"items"`
}

func (l *IngredientList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Finalized reports whether a recipe has been created from the list
func (l *IngredientList) Finalized() bool {
	return l.FinalizedAt != nil
}

// Ingredients returns the list's ingredients in position order. Items must have
// been loaded ordered by position with their Ingredient preloaded.
func (l *IngredientList) Ingredients() []Ingredient {
	out := make([]Ingredient, 0, len(l.Items))
	for _, item := range l.Items {
		out = append(out, item.Ingredient)
	}
	return out
}

// IngredientListItem is one ingredient in a list. The (list, ingredient) pair is
// unique so a list never holds duplicates.
type IngredientListItem struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	IngredientListID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_list_ingredient" json:"ingredient_list_id"`
	IngredientID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_list_ingredient" json:"ingredient_id"`
	Position         int        `gorm:"not null" json:"position"`
	Ingredient       Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
}

func (i *IngredientListItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

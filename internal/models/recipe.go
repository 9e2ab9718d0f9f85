package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is generated once from an ingredient list and never modified.
type Recipe struct {
	ID               uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Name             string             `gorm:"size:255;not null" json:"name"`
	IngredientListID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"ingredient_list_id"`
	Ingredients      IngredientSnapshot `gorm:"type:jsonb;not null" json:"ingredients"`
	Instructions     JSONBStringArray   `gorm:"type:jsonb;not null" json:"instructions"`
	Article          string             `gorm:"type:text;not null" json:"article"`
	Model            string             `gorm:"size:100" json:"model"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

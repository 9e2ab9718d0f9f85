package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is catalog reference data; it is only written by seeding.
type Ingredient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category  string    `gorm:"size:50;not null;index" json:"category"`
}

// BeforeCreate assigns an id when the caller did not
func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Snapshot returns the frozen form stored on recipes
func (i Ingredient) Snapshot() SnapshotIngredient {
	return SnapshotIngredient{
		ID:       i.ID.String(),
		Name:     i.Name,
		Category: i.Category,
	}
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	return scanJSON(value, a, func() { *a = JSONBStringArray{} })
}

// IngredientSnapshot is the copy of ingredients stored with a recipe
type IngredientSnapshot []SnapshotIngredient

// SnapshotIngredient freezes an ingredient's identity at recipe creation time
type SnapshotIngredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Value implements the driver.Valuer interface
func (s IngredientSnapshot) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (s *IngredientSnapshot) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = IngredientSnapshot{} })
}

func scanJSON(value interface{}, dest interface{}, empty func()) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		empty()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
	if len(raw) == 0 {
		empty()
		return nil
	}
	return json.Unmarshal(raw, dest)
}

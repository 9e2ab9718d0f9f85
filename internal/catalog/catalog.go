// Package catalog provides the ingredient reference data and seeds it into the
// database. The default catalog is embedded; deployments may point the seeder
// at a JSON file on disk or in S3 instead.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pageza/alchemorsel-recipes/backend/config"
	"github.com/pageza/alchemorsel-recipes/backend/internal/models"
	"go.uber.org/zap"
)

//go:embed ingredients.json
var defaultCatalog []byte

var validate = validator.New()

// Entry is one catalog ingredient as stored in the JSON source
type Entry struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"required,max=50"`
}

// ObjectOpener reads an object from a bucket
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Store is the persistence the seeder writes to
type Store interface {
	CountIngredients(ctx context.Context) (int64, error)
	UpsertIngredients(ctx context.Context, ingredients []models.Ingredient) error
}

// Default returns the embedded catalog
func Default() ([]Entry, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Load decodes and validates a JSON array of entries. Names are trimmed and
// the first occurrence of a name wins, ignoring case.
func Load(r io.Reader) ([]Entry, error) {
	var raw []Entry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	entries := make([]Entry, 0, len(raw))
	for i, e := range raw {
		e.Name = strings.TrimSpace(e.Name)
		e.Category = strings.TrimSpace(e.Category)
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("invalid catalog entry %d: %w", i, err)
		}
		key := strings.ToLower(e.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return entries, nil
}

// LoadSource loads the catalog named by source: empty for the embedded
// catalog, an s3://bucket/key URL, or a local file path. opener may be nil
// when source is not an S3 URL.
func LoadSource(ctx context.Context, source string, opener ObjectOpener) ([]Entry, error) {
	if source == "" {
		return Default()
	}

	var rc io.ReadCloser
	if bucket, key, ok := config.ParseS3URL(source); ok {
		if opener == nil {
			return nil, fmt.Errorf("no object store configured for %s", source)
		}
		obj, err := opener.Open(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		rc = obj
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog file: %w", err)
		}
		rc = f
	}
	defer rc.Close()

	return Load(rc)
}

// ToModels converts entries to ingredient rows
func ToModels(entries []Entry) []models.Ingredient {
	out := make([]models.Ingredient, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.Ingredient{Name: e.Name, Category: e.Category})
	}
	return out
}

// Seed upserts entries into store
func Seed(ctx context.Context, store Store, entries []Entry) error {
	return store.UpsertIngredients(ctx, ToModels(entries))
}

// SeedIfEmpty seeds entries only when the catalog has no ingredients yet. It
// reports whether anything was written.
func SeedIfEmpty(ctx context.Context, store Store, entries []Entry, log *zap.Logger) (bool, error) {
	count, err := store.CountIngredients(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		log.Debug("Ingredient catalog already seeded", zap.Int64("count", count))
		return false, nil
	}

	if err := Seed(ctx, store, entries); err != nil {
		return false, err
	}
	log.Info("Seeded ingredient catalog", zap.Int("count", len(entries)))
	return true, nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
)

const categoriesFile = "categories/categories.json"

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	return readArray[models.Category](s, categoriesFile)
}

func (s *Store) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()

	categories, err := readArray[models.Category](s, categoriesFile)
	if err != nil {
		return nil, err
	}
	category.ID = models.NewID("cat")
	category.CreatedAt = models.Now()
	if category.Slug == "" {
		category.Slug = models.Slugify(category.Name)
	}
	categories = append(categories, category)
	if err := s.writeJSON(categoriesFile, categories); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, patch json.RawMessage) (*models.Category, error) {
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()

	categories, err := readArray[models.Category](s, categoriesFile)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID != id {
			continue
		}
		if err := json.Unmarshal(patch, &categories[i]); err != nil {
			return nil, fmt.Errorf("merge category %q: %w", id, err)
		}
		if err := s.writeJSON(categoriesFile, categories); err != nil {
			return nil, err
		}
		return &categories[i], nil
	}
	return nil, fmt.Errorf("category %q: %w", id, ErrNotFound)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()

	categories, err := readArray[models.Category](s, categoriesFile)
	if err != nil {
		return err
	}
	filtered := categories[:0]
	for _, c := range categories {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	return s.writeJSON(categoriesFile, filtered)
}

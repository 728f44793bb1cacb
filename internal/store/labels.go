package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
)

const labelsFile = "labels/labels.json"

// ListLabels optionally narrows to one owning category.
func (s *Store) ListLabels(ctx context.Context, categoryID string) ([]models.Label, error) {
	labels, err := readArray[models.Label](s, labelsFile)
	if err != nil {
		return nil, err
	}
	if categoryID == "" {
		return labels, nil
	}
	filtered := labels[:0]
	for _, l := range labels {
		if l.CategoryID == categoryID {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

func (s *Store) CreateLabel(ctx context.Context, label models.Label) (*models.Label, error) {
	s.labelsMu.Lock()
	defer s.labelsMu.Unlock()

	labels, err := readArray[models.Label](s, labelsFile)
	if err != nil {
		return nil, err
	}
	label.ID = models.NewID("label")
	label.CreatedAt = models.Now()
	if label.Slug == "" {
		label.Slug = models.Slugify(label.Name)
	}
	labels = append(labels, label)
	if err := s.writeJSON(labelsFile, labels); err != nil {
		return nil, err
	}
	return &label, nil
}

func (s *Store) UpdateLabel(ctx context.Context, id string, patch json.RawMessage) (*models.Label, error) {
	s.labelsMu.Lock()
	defer s.labelsMu.Unlock()

	labels, err := readArray[models.Label](s, labelsFile)
	if err != nil {
		return nil, err
	}
	for i := range labels {
		if labels[i].ID != id {
			continue
		}
		if err := json.Unmarshal(patch, &labels[i]); err != nil {
			return nil, fmt.Errorf("merge label %q: %w", id, err)
		}
		if err := s.writeJSON(labelsFile, labels); err != nil {
			return nil, err
		}
		return &labels[i], nil
	}
	return nil, fmt.Errorf("label %q: %w", id, ErrNotFound)
}

func (s *Store) DeleteLabel(ctx context.Context, id string) error {
	s.labelsMu.Lock()
	defer s.labelsMu.Unlock()

	labels, err := readArray[models.Label](s, labelsFile)
	if err != nil {
		return err
	}
	filtered := labels[:0]
	for _, l := range labels {
		if l.ID != id {
			filtered = append(filtered, l)
		}
	}
	return s.writeJSON(labelsFile, filtered)
}

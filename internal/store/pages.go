package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
)

const pagesDir = "pages"

func (s *Store) ListPages(ctx context.Context, statusFilter string) ([]models.Page, error) {
	pages, err := readRecordDir[models.Page](s, pagesDir)
	if err != nil {
		return nil, err
	}
	filtered := pages[:0]
	for _, p := range pages {
		if publicationVisible(p.Status, statusFilter) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *Store) GetPageBySlug(ctx context.Context, slug string) (*models.Page, error) {
	pages, err := readRecordDir[models.Page](s, pagesDir)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		if pages[i].Slug == slug {
			return &pages[i], nil
		}
	}
	return nil, fmt.Errorf("page %q: %w", slug, ErrNotFound)
}

func (s *Store) CreatePage(ctx context.Context, page models.Page) (*models.Page, error) {
	page.ID = models.NewID("page")
	now := models.Now()
	page.CreatedAt = now
	page.UpdatedAt = now
	if page.Slug == "" {
		page.Slug = models.Slugify(page.Title)
	}

	s.pagesMu.Lock()
	defer s.pagesMu.Unlock()
	if err := s.writeJSON(recordPath(pagesDir, page.Slug, page.ID), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage follows the same two-phase rename rule as UpdatePost.
func (s *Store) UpdatePage(ctx context.Context, slug string, patch json.RawMessage) (*models.Page, error) {
	s.pagesMu.Lock()
	defer s.pagesMu.Unlock()

	pages, err := readRecordDir[models.Page](s, pagesDir)
	if err != nil {
		return nil, err
	}
	var existing *models.Page
	for i := range pages {
		if pages[i].Slug == slug {
			existing = &pages[i]
			break
		}
	}
	if existing == nil {
		return nil, fmt.Errorf("page %q: %w", slug, ErrNotFound)
	}

	updated := *existing
	if err := json.Unmarshal(patch, &updated); err != nil {
		return nil, fmt.Errorf("merge page %q: %w", slug, err)
	}
	if updated.Slug == "" {
		updated.Slug = models.Slugify(updated.Title)
	}
	updated.UpdatedAt = models.Now()

	if err := s.writeJSON(recordPath(pagesDir, updated.Slug, updated.ID), &updated); err != nil {
		return nil, err
	}
	if existing.Slug != updated.Slug {
		if err := s.remove(recordPath(pagesDir, existing.Slug, existing.ID)); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

func (s *Store) DeletePage(ctx context.Context, slug string) error {
	s.pagesMu.Lock()
	defer s.pagesMu.Unlock()
	return s.remove(pagesDir + "/" + slug + ".json")
}

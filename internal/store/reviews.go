package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
)

const reviewsFile = "reviews/reviews.json"

func (s *Store) ListReviews(ctx context.Context, statusFilter string, viewer Viewer) ([]models.Review, error) {
	reviews, err := readArray[models.Review](s, reviewsFile)
	if err != nil {
		return nil, err
	}
	filtered := reviews[:0]
	for _, r := range reviews {
		if moderationVisible(r.Status, statusFilter, viewer) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *Store) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	s.reviewsMu.Lock()
	defer s.reviewsMu.Unlock()

	reviews, err := readArray[models.Review](s, reviewsFile)
	if err != nil {
		return nil, err
	}
	review.ID = models.NewID("review")
	review.CreatedAt = models.Now()
	reviews = append(reviews, review)
	if err := s.writeJSON(reviewsFile, reviews); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *Store) UpdateReview(ctx context.Context, id string, patch json.RawMessage) (*models.Review, error) {
	s.reviewsMu.Lock()
	defer s.reviewsMu.Unlock()

	reviews, err := readArray[models.Review](s, reviewsFile)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].ID != id {
			continue
		}
		if err := json.Unmarshal(patch, &reviews[i]); err != nil {
			return nil, fmt.Errorf("merge review %q: %w", id, err)
		}
		if err := s.writeJSON(reviewsFile, reviews); err != nil {
			return nil, err
		}
		return &reviews[i], nil
	}
	return nil, fmt.Errorf("review %q: %w", id, ErrNotFound)
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	s.reviewsMu.Lock()
	defer s.reviewsMu.Unlock()

	reviews, err := readArray[models.Review](s, reviewsFile)
	if err != nil {
		return err
	}
	filtered := reviews[:0]
	for _, r := range reviews {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	return s.writeJSON(reviewsFile, filtered)
}

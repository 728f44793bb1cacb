package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
)

const commentsFile = "comments/comments.json"

// CommentFilter narrows ListComments. Status empty applies the
// moderation default for the viewer.
type CommentFilter struct {
	PostID string
	Status string
}

func (s *Store) ListComments(ctx context.Context, filter CommentFilter, viewer Viewer) ([]models.Comment, error) {
	comments, err := readArray[models.Comment](s, commentsFile)
	if err != nil {
		return nil, err
	}
	filtered := comments[:0]
	for _, c := range comments {
		if filter.PostID != "" && c.PostID != filter.PostID {
			continue
		}
		if !moderationVisible(c.Status, filter.Status, viewer) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered, nil
}

// CreateComment appends a new comment. The status always starts at
// pending, whatever the caller sent; only an authenticated update can
// move it out of moderation.
func (s *Store) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	comments, err := readArray[models.Comment](s, commentsFile)
	if err != nil {
		return nil, err
	}
	comment.ID = models.NewID("comment")
	comment.Status = models.StatusPending
	comment.CreatedAt = models.Now()
	comments = append(comments, comment)
	if err := s.writeJSON(commentsFile, comments); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Store) UpdateComment(ctx context.Context, id string, patch json.RawMessage) (*models.Comment, error) {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	comments, err := readArray[models.Comment](s, commentsFile)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].ID != id {
			continue
		}
		if err := json.Unmarshal(patch, &comments[i]); err != nil {
			return nil, fmt.Errorf("merge comment %q: %w", id, err)
		}
		if err := s.writeJSON(commentsFile, comments); err != nil {
			return nil, err
		}
		return &comments[i], nil
	}
	return nil, fmt.Errorf("comment %q: %w", id, ErrNotFound)
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	comments, err := readArray[models.Comment](s, commentsFile)
	if err != nil {
		return err
	}
	filtered := comments[:0]
	for _, c := range comments {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	return s.writeJSON(commentsFile, filtered)
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
)

const postsDir = "posts"

// PostFilter narrows ListPosts. Status empty means the publication
// default (published only).
type PostFilter struct {
	Status     string
	CategoryID string
	LabelID    string
	Search     string
}

func (s *Store) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	posts, err := readRecordDir[models.Post](s, postsDir)
	if err != nil {
		return nil, err
	}

	filtered := posts[:0]
	for _, p := range posts {
		if !publicationVisible(p.Status, filter.Status) {
			continue
		}
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.LabelID != "" && !containsString(p.LabelIDs, filter.LabelID) {
			continue
		}
		if filter.Search != "" && !postMatchesSearch(p, filter.Search) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return postSortKey(filtered[i]) > postSortKey(filtered[j])
	})
	return filtered, nil
}

func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	posts, err := readRecordDir[models.Post](s, postsDir)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i], nil
		}
	}
	return nil, fmt.Errorf("post %q: %w", slug, ErrNotFound)
}

func (s *Store) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	post.ID = models.NewID("post")
	now := models.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Slug == "" {
		post.Slug = models.Slugify(post.Title)
	}

	s.postsMu.Lock()
	defer s.postsMu.Unlock()
	if err := s.writeJSON(recordPath(postsDir, post.Slug, post.ID), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost shallow-merges the patch over the stored record and
// refreshes updatedAt. A slug change is two-phase: the record is written
// at the new slug before the old file is removed, so a crash in between
// leaves the post reachable rather than gone.
func (s *Store) UpdatePost(ctx context.Context, slug string, patch json.RawMessage) (*models.Post, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	posts, err := readRecordDir[models.Post](s, postsDir)
	if err != nil {
		return nil, err
	}
	var existing *models.Post
	for i := range posts {
		if posts[i].Slug == slug {
			existing = &posts[i]
			break
		}
	}
	if existing == nil {
		return nil, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}

	updated := *existing
	if err := json.Unmarshal(patch, &updated); err != nil {
		return nil, fmt.Errorf("merge post %q: %w", slug, err)
	}
	if updated.Slug == "" {
		updated.Slug = models.Slugify(updated.Title)
	}
	updated.UpdatedAt = models.Now()

	if err := s.writeJSON(recordPath(postsDir, updated.Slug, updated.ID), &updated); err != nil {
		return nil, err
	}
	if existing.Slug != updated.Slug {
		if err := s.remove(recordPath(postsDir, existing.Slug, existing.ID)); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

func (s *Store) DeletePost(ctx context.Context, slug string) error {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()
	return s.remove(postsDir + "/" + slug + ".json")
}

// readRecordDir scans a per-record collection directory. A directory that
// has never been created is an empty collection; a file that fails to
// parse is a real storage fault and propagates.
func readRecordDir[T any](s *Store, dir string) ([]T, error) {
	entries, err := os.ReadDir(s.path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var records []T
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		var rec T
		if err := s.readJSON(dir+"/"+entry.Name(), &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// recordPath names a per-record file by slug, falling back to the id for
// records that never got one.
func recordPath(dir, slug, id string) string {
	name := slug
	if name == "" {
		name = id
	}
	return dir + "/" + name + ".json"
}

func postSortKey(p models.Post) string {
	if p.PublishedAt != "" {
		return p.PublishedAt
	}
	return p.CreatedAt
}

func postMatchesSearch(p models.Post, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Content), q)
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

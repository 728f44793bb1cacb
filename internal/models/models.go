package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

type Post struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Excerpt       string   `json:"excerpt,omitempty"`
	Content       string   `json:"content"`
	CategoryID    string   `json:"categoryId,omitempty"`
	LabelIDs      []string `json:"labelIds,omitempty"`
	FeaturedImage string   `json:"featuredImage,omitempty"`
	// Status is "draft" or "published"
	Status      string `json:"status"`
	PublishedAt string `json:"publishedAt,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type Page struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// Label carries a weak reference to its owning category. Deleting the
// category does not touch its labels.
type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Color      string `json:"color,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	Order      int    `json:"order,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusSpam     = "spam"
)

type Comment struct {
	ID      string `json:"id"`
	PostID  string `json:"postId"`
	Author  string `json:"author"`
	Email   string `json:"email"`
	Content string `json:"content"`
	// Status is "pending", "approved" or "spam". Public creation always
	// starts at "pending".
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type Review struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
	Avatar  string `json:"avatar,omitempty"`
	// Status is "pending" or "approved"
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	// Password holds a bcrypt hash, never the plaintext.
	Password  string `json:"password"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// UserSummary is the shape returned to clients; it never carries the hash.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Role: u.Role}
}

// NewID returns a type-prefixed timestamp token like
// "post-1693526400000-a1b2c3". The random suffix keeps two creates in the
// same millisecond distinct.
func NewID(prefix string) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(buf))
}

// Now returns the timestamp format used across all records.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses non-alphanumeric runs into
// single dashes.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

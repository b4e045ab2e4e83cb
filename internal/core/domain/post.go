package domain

import "time"

// Post is a rich-text content entry rendered by the marketing site and
// managed from the admin back-office.
type Post struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     *string
	Content     string
	Locale      string
	AuthorID    string
	Published   bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Package entity defines the domain objects published through the sitemap:
// articles and the feed sources they were collected from.
package entity

import (
	"strconv"
	"time"
)

// Article is a collected news article.
type Article struct {
	ID          int64
	SourceID    int64
	Title       string
	URL         string
	Summary     string
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AbsoluteURL returns the site-relative path of the article page.
func (a *Article) AbsoluteURL() string {
	return "/articles/" + strconv.FormatInt(a.ID, 10)
}

// LastModified reports when the article last changed. UpdatedAt wins when set,
// otherwise the later of PublishedAt and CreatedAt.
func (a *Article) LastModified() time.Time {
	if !a.UpdatedAt.IsZero() {
		return a.UpdatedAt
	}
	if a.PublishedAt.After(a.CreatedAt) {
		return a.PublishedAt
	}
	return a.CreatedAt
}

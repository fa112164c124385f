package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArticle_AbsoluteURL(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{1, "/articles/1"},
		{42, "/articles/42"},
		{9007199254740993, "/articles/9007199254740993"},
	}
	for _, tt := range tests {
		a := Article{ID: tt.id}
		assert.Equal(t, tt.want, a.AbsoluteURL())
	}
}

func TestArticle_LastModified(t *testing.T) {
	created := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	published := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		article Article
		want    time.Time
	}{
		{
			name:    "updated wins",
			article: Article{CreatedAt: created, PublishedAt: published, UpdatedAt: updated},
			want:    updated,
		},
		{
			name:    "published after created",
			article: Article{CreatedAt: created, PublishedAt: published},
			want:    published,
		},
		{
			name:    "backfilled article published before creation",
			article: Article{CreatedAt: published, PublishedAt: created},
			want:    published,
		},
		{
			name:    "zero value",
			article: Article{},
			want:    time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.article.LastModified())
		})
	}
}

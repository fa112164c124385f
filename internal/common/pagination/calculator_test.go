package pagination_test

import (
	"testing"

	"catchup-sitemap/internal/common/pagination"
)

func TestCalculateOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, limit, want int
	}{
		{1, 20, 0},
		{2, 20, 20},
		{10, 50, 450},
		{1, 1, 0},
		{2, 50000, 50000},
	}
	for _, tt := range tests {
		if got := pagination.CalculateOffset(tt.page, tt.limit); got != tt.want {
			t.Errorf("CalculateOffset(%d, %d) = %d, want %d", tt.page, tt.limit, got, tt.want)
		}
	}
}

func TestCalculateTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{"empty list has one page", 0, 20, 1},
		{"fewer than limit", 10, 20, 1},
		{"exactly limit", 20, 20, 1},
		{"one over", 21, 20, 2},
		{"three items, page size two", 3, 2, 2},
		{"protocol limit", 100001, 50000, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := pagination.CalculateTotalPages(tt.total, tt.limit); got != tt.want {
				t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		page, limit, total int
		wantStart, wantEnd int
		wantOK             bool
	}{
		{"first page", 1, 2, 3, 0, 2, true},
		{"last partial page", 2, 2, 3, 2, 3, true},
		{"empty first page", 1, 2, 0, 0, 0, true},
		{"page zero", 0, 2, 3, 0, 0, false},
		{"past last page", 3, 2, 3, 0, 0, false},
		{"page two of empty", 2, 2, 0, 0, 0, false},
		{"invalid limit", 1, 0, 3, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			start, end, ok := pagination.Bounds(tt.page, tt.limit, tt.total)
			if start != tt.wantStart || end != tt.wantEnd || ok != tt.wantOK {
				t.Errorf("Bounds(%d, %d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.page, tt.limit, tt.total, start, end, ok, tt.wantStart, tt.wantEnd, tt.wantOK)
			}
		})
	}
}

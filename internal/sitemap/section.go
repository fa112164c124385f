package sitemap

import (
	"context"
	"fmt"
	"time"

	"catchup-sitemap/internal/common/pagination"
)

const (
	// MaxLimit is the protocol's per-document entry limit.
	MaxLimit = 50000

	// DefaultLimit is used by sections that do not set their own page size.
	DefaultLimit = MaxLimit
)

// Entry is one resolved <url> element. Nil and empty fields are omitted from
// the rendered document.
type Entry struct {
	Location     string
	LastModified *time.Time
	ChangeFreq   ChangeFreq
	Priority     *float64
}

// Page is one sitemap document worth of resolved entries.
type Page struct {
	Section string
	Number  int
	Entries []Entry
}

// LastModified returns the newest lastmod of the page, or nil when the page
// is empty or any entry has no lastmod.
func (p *Page) LastModified() *time.Time {
	return latest(p.Entries)
}

// IndexEntry is one <sitemap> element of the sitemap index.
type IndexEntry struct {
	// Location is the site-relative URL of the sitemap page.
	Location     string
	LastModified *time.Time
}

// Section is a named group of sitemap entries.
type Section interface {
	// Items returns the ordered objects of the section. The order must be
	// stable between calls for pagination to be deterministic.
	Items(ctx context.Context) ([]any, error)

	// Limit returns the page size. Zero selects DefaultLimit.
	Limit() int

	// Attributes returns how each entry attribute is resolved.
	Attributes() Attributes
}

// Plain is a Section backed by a function.
type Plain struct {
	Source   func(ctx context.Context) ([]any, error)
	Attrs    Attributes
	PageSize int
}

// Items calls Source.
func (p *Plain) Items(ctx context.Context) ([]any, error) {
	if p.Source == nil {
		return nil, nil
	}
	return p.Source(ctx)
}

// Limit returns PageSize.
func (p *Plain) Limit() int { return p.PageSize }

// Attributes returns Attrs.
func (p *Plain) Attributes() Attributes { return p.Attrs }

// Slice adapts a typed slice into the []any returned by Section.Items.
func Slice[T any](items []T) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func limitOf(s Section) int {
	if l := s.Limit(); l > 0 {
		return l
	}
	return DefaultLimit
}

// ValidateSection checks the page size and fixed attributes of s.
func ValidateSection(s Section) error {
	if l := s.Limit(); l < 0 || l > MaxLimit {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidLimit, l, MaxLimit)
	}
	return s.Attributes().Validate()
}

// PageCount returns the number of pages of s. An empty section still has
// one (empty) page.
func PageCount(ctx context.Context, s Section) (int, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, fmt.Errorf("PageCount: Items: %w", err)
	}
	return pagination.CalculateTotalPages(int64(len(items)), limitOf(s)), nil
}

// SectionLastModified returns the newest lastmod across all objects of s, or
// nil when the section is empty or any object has no lastmod.
func SectionLastModified(ctx context.Context, s Section) (*time.Time, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("SectionLastModified: Items: %w", err)
	}
	entries, err := resolveAll(s.Attributes(), items)
	if err != nil {
		return nil, err
	}
	return latest(entries), nil
}

// Paginate returns the resolved entries of page number (1-based) of s.
func Paginate(ctx context.Context, s Section, number int) (*Page, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("Paginate: Items: %w", err)
	}
	return paginate(s, items, number)
}

func paginate(s Section, items []any, number int) (*Page, error) {
	limit := limitOf(s)
	start, end, ok := pagination.Bounds(number, limit, len(items))
	if !ok {
		total := pagination.CalculateTotalPages(int64(len(items)), limit)
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageNotFound, number, total)
	}

	entries, err := resolveAll(s.Attributes(), items[start:end])
	if err != nil {
		return nil, err
	}
	return &Page{Number: number, Entries: entries}, nil
}

func resolveAll(attrs Attributes, items []any) ([]Entry, error) {
	entries := make([]Entry, 0, len(items))
	for _, obj := range items {
		e, err := attrs.ResolveEntry(obj)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func latest(entries []Entry) *time.Time {
	if len(entries) == 0 {
		return nil
	}
	var newest time.Time
	for _, e := range entries {
		if e.LastModified == nil {
			return nil
		}
		if e.LastModified.After(newest) {
			newest = *e.LastModified
		}
	}
	return &newest
}

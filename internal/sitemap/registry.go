package sitemap

import (
	"context"
	"errors"
	"fmt"

	"catchup-sitemap/internal/common/pagination"
)

// Factory builds a section on demand, for sections whose contents depend on
// request-time parameters.
type Factory func(ctx context.Context) (Section, error)

// Registration binds a section to a label. Exactly one of Section and
// Factory must be set.
type Registration struct {
	Label   string
	Section Section
	Factory Factory
}

// URLBuilder returns the site-relative URL of a sitemap page.
type URLBuilder func(label string, page int) string

// Registry maps section labels to sections. It is immutable after
// NewRegistry returns and safe for concurrent use.
type Registry struct {
	labels  []string
	entries map[string]Registration
}

// NewRegistry builds a registry from regs, preserving their order for
// the sitemap index. Duplicate or empty labels and invalid static sections
// are rejected.
func NewRegistry(regs ...Registration) (*Registry, error) {
	r := &Registry{
		labels:  make([]string, 0, len(regs)),
		entries: make(map[string]Registration, len(regs)),
	}
	for _, e := range regs {
		if e.Label == "" {
			return nil, errors.New("sitemap section label cannot be empty")
		}
		if _, dup := r.entries[e.Label]; dup {
			return nil, fmt.Errorf("sitemap section %q already exists", e.Label)
		}
		if (e.Section == nil) == (e.Factory == nil) {
			return nil, fmt.Errorf("sitemap section %q must set exactly one of Section and Factory", e.Label)
		}
		if e.Section != nil {
			if err := ValidateSection(e.Section); err != nil {
				return nil, fmt.Errorf("sitemap section %q: %w", e.Label, err)
			}
		}
		r.labels = append(r.labels, e.Label)
		r.entries[e.Label] = e
	}
	return r, nil
}

// Labels returns the registered labels in registration order.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Section returns the section registered under label, building it from its
// factory if needed.
func (r *Registry) Section(ctx context.Context, label string) (Section, error) {
	e, ok := r.entries[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, label)
	}
	if e.Section != nil {
		return e.Section, nil
	}
	s, err := e.Factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitemap section %q: factory: %w", label, err)
	}
	if err := ValidateSection(s); err != nil {
		return nil, fmt.Errorf("sitemap section %q: %w", label, err)
	}
	return s, nil
}

// Resolve returns page number of the section registered under label.
func (r *Registry) Resolve(ctx context.Context, label string, number int) (*Page, error) {
	s, err := r.Section(ctx, label)
	if err != nil {
		return nil, err
	}
	page, err := Paginate(ctx, s, number)
	if err != nil {
		return nil, fmt.Errorf("sitemap section %q: %w", label, err)
	}
	page.Section = label
	return page, nil
}

// IndexEntries lists every page of every section, sections in registration
// order and pages in ascending order. Each entry carries the newest lastmod
// of its page's entries.
func (r *Registry) IndexEntries(ctx context.Context, urlFor URLBuilder) ([]IndexEntry, error) {
	var out []IndexEntry
	for _, label := range r.labels {
		s, err := r.Section(ctx, label)
		if err != nil {
			return nil, err
		}
		items, err := s.Items(ctx)
		if err != nil {
			return nil, fmt.Errorf("sitemap section %q: Items: %w", label, err)
		}

		total := pagination.CalculateTotalPages(int64(len(items)), limitOf(s))
		for number := 1; number <= total; number++ {
			page, err := paginate(s, items, number)
			if err != nil {
				return nil, fmt.Errorf("sitemap section %q: %w", label, err)
			}
			out = append(out, IndexEntry{
				Location:     urlFor(label, number),
				LastModified: page.LastModified(),
			})
		}
	}
	return out, nil
}

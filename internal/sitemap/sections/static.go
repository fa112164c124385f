package sections

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"catchup-sitemap/internal/sitemap"
)

// StaticPage is a flat page listed in the sitemap, such as /about.
type StaticPage struct {
	Path         string    `yaml:"path"`
	LastModified time.Time `yaml:"lastmod"`
	ChangeFreq   string    `yaml:"changefreq"`
	Priority     *float64  `yaml:"priority"`
}

// AbsoluteURL returns Path.
func (p StaticPage) AbsoluteURL() string { return p.Path }

type staticFile struct {
	Pages []StaticPage `yaml:"pages"`
}

// ParseStaticPages decodes and validates a static page list:
//
//	pages:
//	  - path: /about
//	    lastmod: 2025-06-01T00:00:00Z
//	    changefreq: monthly
//	    priority: 0.3
func ParseStaticPages(r io.Reader) ([]StaticPage, error) {
	var f staticFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode static pages: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Pages))
	for i := range f.Pages {
		p := &f.Pages[i]
		if err := sitemap.ValidateLocation(p.Path); err != nil {
			return nil, fmt.Errorf("static page %d: %w", i, err)
		}
		if _, dup := seen[p.Path]; dup {
			return nil, fmt.Errorf("static page %d: duplicate path %q", i, p.Path)
		}
		seen[p.Path] = struct{}{}

		if p.ChangeFreq != "" {
			cf, err := sitemap.ParseChangeFreq(p.ChangeFreq)
			if err != nil {
				return nil, fmt.Errorf("static page %q: %w", p.Path, err)
			}
			p.ChangeFreq = string(cf)
		}
		if p.Priority != nil {
			if err := sitemap.ValidatePriority(*p.Priority); err != nil {
				return nil, fmt.Errorf("static page %q: %w", p.Path, err)
			}
		}
	}
	return f.Pages, nil
}

// LoadStaticPages reads a static page list from path.
func LoadStaticPages(path string) ([]StaticPage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read static pages: %w", err)
	}
	return ParseStaticPages(bytes.NewReader(data))
}

// NewStatic returns a section over pages, in file order.
func NewStatic(pages []StaticPage, pageSize int) *sitemap.Plain {
	return &sitemap.Plain{
		Source: func(context.Context) ([]any, error) {
			return sitemap.Slice(pages), nil
		},
		Attrs:    staticAttributes(),
		PageSize: pageSize,
	}
}

// StaticFactory re-reads path every time the section is requested, so edits
// to the file show up without a restart.
func StaticFactory(path string, pageSize int) sitemap.Factory {
	return func(context.Context) (sitemap.Section, error) {
		pages, err := LoadStaticPages(path)
		if err != nil {
			return nil, err
		}
		return NewStatic(pages, pageSize), nil
	}
}

func staticAttributes() sitemap.Attributes {
	return sitemap.Attributes{
		LastModified: sitemap.From(func(p StaticPage) time.Time { return p.LastModified }),
		ChangeFreq: sitemap.From(func(p StaticPage) sitemap.ChangeFreq {
			return sitemap.ChangeFreq(p.ChangeFreq)
		}),
		Priority: sitemap.Derived(func(obj any) (float64, error) {
			p, ok := obj.(StaticPage)
			if !ok {
				return 0, fmt.Errorf("unexpected object type %T", obj)
			}
			if p.Priority == nil {
				return 0, sitemap.ErrOmit
			}
			return *p.Priority, nil
		}),
	}
}

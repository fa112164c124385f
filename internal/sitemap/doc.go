// Package sitemap renders sitemaps.org documents from application data.
//
// A Section supplies an ordered collection of domain objects plus the four
// per-entry attributes (location, last modification, change frequency and
// priority). Each attribute is an Attr: a fixed value, a function of the
// object, or the attribute's default policy.
//
// Sections are grouped under short labels in an immutable Registry. The
// registry resolves (label, page) pairs to a Page of resolved entries and
// enumerates the pages of every section for the sitemap index. RenderURLSet
// and RenderIndex turn those values into XML.
//
// Example usage:
//
//	reg, err := sitemap.NewRegistry(
//	    sitemap.Registration{Label: "pages", Section: &sitemap.Plain{
//	        Source: func(ctx context.Context) ([]any, error) { return pages, nil },
//	        Attrs: sitemap.Attributes{
//	            Location:   sitemap.From(func(p Page) string { return p.Path }),
//	            ChangeFreq: sitemap.Fixed(sitemap.Weekly),
//	        },
//	    }},
//	)
//	page, err := reg.Resolve(ctx, "pages", 1)
//	body, err := sitemap.RenderURLSet(page, "https://example.com")
package sitemap

// Package pathutil maps request paths to bounded route labels for metrics
// and span names.
package pathutil

import (
	"regexp"
	"strings"
)

type pathPattern struct {
	re       *regexp.Regexp
	template string
}

// Section labels come from the URL, so any path of the section shape
// collapses to a single template.
var pathPatterns = []pathPattern{
	{re: regexp.MustCompile(`^/sitemap-[^/]+\.xml$`), template: "/sitemap-:section.xml"},
	{re: regexp.MustCompile(`^/articles/\d+$`), template: "/articles/:id"},
	{re: regexp.MustCompile(`^/sources/\d+$`), template: "/sources/:id"},
}

// NormalizePath strips the query string and any trailing slash, then
// replaces dynamic segments with their template:
//
//	NormalizePath("/sitemap-articles.xml")  // "/sitemap-:section.xml"
//	NormalizePath("/sitemap.xml")           // "/sitemap.xml"
//	NormalizePath("/health/")               // "/health"
func NormalizePath(path string) string {
	if i := strings.IndexByte(path, '?'); i != -1 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	for _, p := range pathPatterns {
		if p.re.MatchString(path) {
			return p.template
		}
	}
	return path
}

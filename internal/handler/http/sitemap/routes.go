// Package sitemap serves the sitemap index and section pages over HTTP and
// exposes the manual ping trigger.
package sitemap

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"catchup-sitemap/internal/usecase/ping"
)

// Route names understood by Routes.Reverse.
const (
	RouteIndex   = ping.RouteIndex
	RouteSection = ping.RouteSingle
)

// IndexPath is where the sitemap index is served.
const IndexPath = "/sitemap.xml"

const (
	sectionPrefix = "sitemap-"
	sectionSuffix = ".xml"
)

// ErrNoRoute is returned by Reverse for unknown route names or parameters.
var ErrNoRoute = errors.New("route not found")

// Routes builds sitemap URLs. It implements ping.Reverser.
type Routes struct {
	// Labels are the registered sections. Reversing another label fails.
	Labels []string
}

// Reverse returns the site-relative URL of the named route. RouteSection
// takes a "section" parameter and an optional page number "p". The section
// may be left out when only one is registered.
func (rt Routes) Reverse(name string, params map[string]string) (string, error) {
	switch name {
	case RouteIndex:
		return IndexPath, nil
	case RouteSection:
		label := params["section"]
		if label == "" && len(rt.Labels) == 1 {
			label = rt.Labels[0]
		}
		if label == "" || !slices.Contains(rt.Labels, label) {
			return "", fmt.Errorf("%w: %s section=%q", ErrNoRoute, name, label)
		}
		page := 1
		if p := params["p"]; p != "" {
			n, err := strconv.Atoi(p)
			if err != nil || n < 1 {
				return "", fmt.Errorf("%w: %s p=%q", ErrNoRoute, name, p)
			}
			page = n
		}
		return SectionURL(label, page), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrNoRoute, name)
	}
}

// SectionURL is the site-relative URL of page of section label. Page one
// carries no query string.
func SectionURL(label string, page int) string {
	u := "/" + sectionPrefix + label + sectionSuffix
	if page > 1 {
		u += "?p=" + strconv.Itoa(page)
	}
	return u
}

// parseSectionFile extracts the label from "sitemap-<label>.xml".
func parseSectionFile(file string) (string, bool) {
	if !strings.HasPrefix(file, sectionPrefix) || !strings.HasSuffix(file, sectionSuffix) {
		return "", false
	}
	label := strings.TrimSuffix(strings.TrimPrefix(file, sectionPrefix), sectionSuffix)
	return label, label != ""
}

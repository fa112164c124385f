package config

import (
	"fmt"
	"net/url"
	"strings"

	"catchup-sitemap/internal/sitemap"
)

// MaxPageSize is the protocol limit of URLs per sitemap file.
const MaxPageSize = sitemap.MaxLimit

// SectionConfig holds the attributes shared by every entry of a section.
type SectionConfig struct {
	ChangeFreq sitemap.ChangeFreq
	Priority   *float64
}

// SitemapConfig is the sitemap part of the API configuration.
type SitemapConfig struct {
	SiteBaseURL string
	PageSize    int

	Articles SectionConfig
	Sources  SectionConfig

	// StaticPagesFile is the YAML file of flat pages; empty disables the section.
	StaticPagesFile string
	// ActiveSourcesOnly restricts the article section to active sources.
	ActiveSourcesOnly bool
}

// LoadSitemapConfig reads the SITE_BASE_URL and SITEMAP_* variables.
// Invalid values are errors, not fallbacks. An unset SITE_BASE_URL leaves
// SiteBaseURL empty and the API takes the scheme and host from each request.
func LoadSitemapConfig() (*SitemapConfig, error) {
	cfg := &SitemapConfig{
		SiteBaseURL:     strings.TrimRight(GetEnvString("SITE_BASE_URL", ""), "/"),
		StaticPagesFile: GetEnvString("SITEMAP_STATIC_PAGES_FILE", ""),
	}

	var err error
	if cfg.SiteBaseURL != "" {
		u, perr := url.Parse(cfg.SiteBaseURL)
		if perr != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("SITE_BASE_URL must be an absolute http(s) URL, got %q", cfg.SiteBaseURL)
		}
	}
	if cfg.PageSize, err = LookupEnvInt("SITEMAP_PAGE_SIZE", MaxPageSize); err != nil {
		return nil, err
	}
	if cfg.PageSize < 1 || cfg.PageSize > MaxPageSize {
		return nil, fmt.Errorf("SITEMAP_PAGE_SIZE must be between 1 and %d, got %d", MaxPageSize, cfg.PageSize)
	}
	if cfg.ActiveSourcesOnly, err = LookupEnvBool("SITEMAP_ARTICLES_ACTIVE_SOURCES_ONLY", false); err != nil {
		return nil, err
	}

	if cfg.Articles, err = loadSection("SITEMAP_ARTICLES", "daily", "0.8"); err != nil {
		return nil, err
	}
	if cfg.Sources, err = loadSection("SITEMAP_SOURCES", "weekly", "0.5"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSection reads <prefix>_CHANGEFREQ and <prefix>_PRIORITY. The value
// "none" leaves the attribute out of the output.
func loadSection(prefix, changefreq, priority string) (SectionConfig, error) {
	var sc SectionConfig

	if raw := GetEnvString(prefix+"_CHANGEFREQ", changefreq); raw != "none" {
		cf, err := sitemap.ParseChangeFreq(raw)
		if err != nil {
			return sc, fmt.Errorf("%s_CHANGEFREQ: %w", prefix, err)
		}
		sc.ChangeFreq = cf
	}

	if raw := GetEnvString(prefix+"_PRIORITY", priority); raw != "none" {
		p, err := sitemap.ParsePriority(raw)
		if err != nil {
			return sc, fmt.Errorf("%s_PRIORITY: %w", prefix, err)
		}
		sc.Priority = &p
	}
	return sc, nil
}

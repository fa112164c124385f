package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// ContentType is the media type of rendered sitemap documents.
const ContentType = "application/xml"

// Namespace is the sitemaps.org 0.9 XML namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// lastmodLayout is the W3C datetime profile of ISO 8601 accepted by the protocol.
const lastmodLayout = time.RFC3339

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []urlXML `xml:"url"`
}

type urlXML struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []sitemapXML `xml:"sitemap"`
}

type sitemapXML struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// RenderURLSet renders page as a <urlset> document. baseURL is the scheme
// and host prefixed to every location, e.g. "https://example.com".
func RenderURLSet(page *Page, baseURL string) ([]byte, error) {
	doc := urlSet{Xmlns: Namespace, URLs: make([]urlXML, 0, len(page.Entries))}
	for _, e := range page.Entries {
		u := urlXML{
			Loc:        absolute(baseURL, e.Location),
			LastMod:    formatLastMod(e.LastModified),
			ChangeFreq: string(e.ChangeFreq),
		}
		if e.Priority != nil {
			u.Priority = FormatPriority(*e.Priority)
		}
		doc.URLs = append(doc.URLs, u)
	}
	return encode(doc)
}

// RenderIndex renders entries as a <sitemapindex> document.
func RenderIndex(entries []IndexEntry, baseURL string) ([]byte, error) {
	doc := sitemapIndex{Xmlns: Namespace, Sitemaps: make([]sitemapXML, 0, len(entries))}
	for _, e := range entries {
		doc.Sitemaps = append(doc.Sitemaps, sitemapXML{
			Loc:     absolute(baseURL, e.Location),
			LastMod: formatLastMod(e.LastModified),
		})
	}
	return encode(doc)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode sitemap xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode sitemap xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func absolute(baseURL, loc string) string {
	return strings.TrimRight(baseURL, "/") + loc
}

func formatLastMod(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(lastmodLayout)
}

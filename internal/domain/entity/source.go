package entity

import (
	"strconv"
	"time"
)

// Source is a news feed source.
type Source struct {
	ID            int64
	Name          string
	FeedURL       string
	LastCrawledAt *time.Time
	Active        bool
	SourceType    string // RSS, Webflow, NextJS, Remix
}

// AbsoluteURL returns the site-relative path of the source page.
func (s *Source) AbsoluteURL() string {
	return "/sources/" + strconv.FormatInt(s.ID, 10)
}

package openlibrary

import (
	"fmt"
	"strings"
)

// CoverSize represents cover image size options
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// ParseCoverSize maps "S", "M" or "L" (any case) to a CoverSize.
func ParseCoverSize(s string) (CoverSize, bool) {
	switch CoverSize(strings.ToUpper(s)) {
	case CoverSmall:
		return CoverSmall, true
	case CoverMedium:
		return CoverMedium, true
	case CoverLarge:
		return CoverLarge, true
	}
	return "", false
}

// URLs derives OpenLibrary page and cover links.
type URLs struct {
	Base   string
	Covers string
}

// CoverURL returns the cover image URL for a numeric cover id, or "" when
// there is no cover. An empty size means medium.
func (u URLs) CoverURL(id int, size CoverSize) string {
	if id <= 0 {
		return ""
	}
	if size == "" {
		size = CoverMedium
	}
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", u.Covers, id, size)
}

// PageURL returns the canonical OpenLibrary page for a book key.
func (u URLs) PageURL(key string) string {
	if key == "" {
		return u.Base
	}
	return u.Base + key
}

// WorkKey returns key in the /works/ namespace. Keys already under it are
// returned unchanged; an empty key stays empty.
func WorkKey(key string) string {
	if key == "" || strings.HasPrefix(key, "/works/") {
		return key
	}
	return "/works/" + strings.TrimPrefix(key, "/")
}

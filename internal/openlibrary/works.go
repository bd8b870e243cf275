package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// Some work descriptions carry HTML from older imports; only text is kept.
var (
	descriptionPolicy = bluemonday.StrictPolicy()
	lineBreaks        = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</p>", "\n\n")
)

// FetchWork loads extended metadata for the work behind key. The key may be
// a bare id ("OL27448W") or already carry the /works/ prefix.
func (c *Client) FetchWork(ctx context.Context, key string) (*entities.Work, error) {
	workKey := WorkKey(key)
	if workKey == "" {
		return nil, ErrNoKey
	}

	workURL := fmt.Sprintf("%s%s.json", c.urls.Base, escapePath(workKey))

	resp, cancel, err := c.get(ctx, workURL)
	if err != nil {
		return nil, fmt.Errorf("fetch work %s: %w", workKey, err)
	}
	defer cancel()
	defer resp.Body.Close()

	var work openLibraryWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, fmt.Errorf("decode work %s: %w: %v", workKey, ErrDecode, err)
	}

	result := &entities.Work{
		Key:      work.Key,
		Title:    work.Title,
		Subjects: work.Subjects,
	}

	switch v := work.Description.(type) {
	case string:
		result.Description = cleanDescription(v)
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			result.Description = cleanDescription(val)
		}
	}

	return result, nil
}

func cleanDescription(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	text := descriptionPolicy.Sanitize(lineBreaks.Replace(s))
	return strings.TrimSpace(html.UnescapeString(text))
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

type openLibraryWork struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description any      `json:"description"` // Can be string or {type, value}
	Subjects    []string `json:"subjects"`
}

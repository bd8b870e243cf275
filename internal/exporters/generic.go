// Package exporters writes favorites out as YAML, JSON or Markdown and reads
// the YAML and JSON forms back.
package exporters

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

type Format string

const (
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ContentType is the media type served for downloads in this format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/yaml; charset=utf-8"
	}
}

// Extension is the file extension used for downloads, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	default:
		return ".yaml"
	}
}

// ParseFormat accepts the format names and their common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q, expected yaml, json or markdown", s)
}

// FormatFromPath guesses the format of a file from its extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatYAML
	}
}

type ExportResult struct {
	FavoritesProcessed int `json:"favorites_processed"`
	FavoritesFailed    int `json:"favorites_failed"`
}

// Encode writes favs to w. Markdown produces a single reading list document;
// page links are built with urls.
func Encode(w io.Writer, format Format, favs []entities.Favorite, urls openlibrary.URLs) error {
	if favs == nil {
		favs = []entities.Favorite{}
	}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(favs); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(favs)
	case FormatMarkdown:
		_, err := io.WriteString(w, GenerateReadingList(favs, urls))
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

// Decode parses an exported YAML or JSON list, filling the defaults the
// favorites store expects.
func Decode(data []byte, format Format) ([]entities.Favorite, error) {
	favs := []entities.Favorite{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &favs)
	case FormatYAML:
		err = yaml.Unmarshal(data, &favs)
	default:
		return nil, fmt.Errorf("cannot import %s", format)
	}
	if err != nil {
		return nil, err
	}

	kept := favs[:0]
	for _, f := range favs {
		if f.Key == "" {
			continue
		}
		if f.AuthorNames == nil {
			f.AuthorNames = []string{}
		}
		if len(f.Languages) == 0 {
			f.Languages = []string{entities.UnknownLanguage}
		}
		kept = append(kept, f)
	}
	return kept, nil
}

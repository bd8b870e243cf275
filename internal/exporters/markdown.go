package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

// MarkdownExporter writes one note per favorite plus an index into Dir,
// laid out for an Obsidian vault.
type MarkdownExporter struct {
	Dir           string
	IndexFileName string
	urls          openlibrary.URLs
	now           func() time.Time
}

func NewMarkdownExporter(dir string, urls openlibrary.URLs) *MarkdownExporter {
	return &MarkdownExporter{
		Dir:           dir,
		IndexFileName: "index.md",
		urls:          urls,
		now:           time.Now,
	}
}

func (e *MarkdownExporter) Export(favs []entities.Favorite) (ExportResult, error) {
	result := ExportResult{}
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return result, fmt.Errorf("failed to create export directory: %w", err)
	}

	written := make(map[string]int, len(favs))
	for _, f := range favs {
		name := SanitizeFilename(f.Title)
		// two works can share a title
		if n := written[name]; n > 0 {
			written[name] = n + 1
			name = fmt.Sprintf("%s (%d)", name, n+1)
		} else {
			written[name] = 1
		}

		path := filepath.Join(e.Dir, name+".md")
		if err := os.WriteFile(path, []byte(GenerateMarkdown(f, e.urls, e.now())), 0644); err != nil {
			result.FavoritesFailed++
			continue
		}
		result.FavoritesProcessed++
	}

	index := filepath.Join(e.Dir, e.IndexFileName)
	if err := os.WriteFile(index, []byte(GenerateReadingList(favs, e.urls)), 0644); err != nil {
		return result, fmt.Errorf("failed to write index: %w", err)
	}
	return result, nil
}

// GenerateMarkdown renders a single favorite as a note with YAML frontmatter.
func GenerateMarkdown(f entities.Favorite, urls openlibrary.URLs, now time.Time) string {
	c := card.New(f.Book(), true, nil)
	var b strings.Builder

	fmt.Fprintf(&b, "---\n")
	fmt.Fprintf(&b, "content_source: openlibrary\n")
	fmt.Fprintf(&b, "content_type: book\n")
	fmt.Fprintf(&b, "created_at: %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "title: %s\n", quote(f.Title))
	fmt.Fprintf(&b, "author: %s\n", quote(c.Authors))
	if f.FirstPublishYear > 0 {
		fmt.Fprintf(&b, "year: %d\n", f.FirstPublishYear)
	}
	fmt.Fprintf(&b, "key: %s\n", quote(f.Key))
	fmt.Fprintf(&b, "tags: [books, favorites]\n")
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", f.Title)
	fmt.Fprintf(&b, "- **Authors:** %s\n", c.Authors)
	fmt.Fprintf(&b, "- **First published:** %s\n", c.Year)
	fmt.Fprintf(&b, "- **Languages:** %s\n", c.Languages)
	fmt.Fprintf(&b, "- **OpenLibrary:** %s\n", urls.PageURL(f.Key))
	if f.CoverID > 0 {
		fmt.Fprintf(&b, "\n![cover](%s)\n", urls.CoverURL(f.CoverID, openlibrary.CoverLarge))
	}
	return b.String()
}

// GenerateReadingList renders all favorites as a single checklist.
func GenerateReadingList(favs []entities.Favorite, urls openlibrary.URLs) string {
	var b strings.Builder
	b.WriteString("# Favorite books\n\n")
	if len(favs) == 0 {
		b.WriteString("_No favorites yet._\n")
		return b.String()
	}
	for _, f := range favs {
		c := card.New(f.Book(), true, nil)
		fmt.Fprintf(&b, "- [ ] [%s](%s) by %s (%s)\n", f.Title, urls.PageURL(f.Key), c.Authors, c.Year)
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

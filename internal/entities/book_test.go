package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_UnmarshalJSON(t *testing.T) {
	t.Run("decodes a regular search document", func(t *testing.T) {
		data := `{
			"key": "/works/OL27448W",
			"title": "The Lord of the Rings",
			"author_name": ["J.R.R. Tolkien"],
			"cover_i": 14625765,
			"first_publish_year": 1954,
			"language": ["eng", "fre"],
			"edition_count": 120,
			"subject": ["Fantasy"]
		}`

		var b Book
		require.NoError(t, json.Unmarshal([]byte(data), &b))

		assert.Equal(t, "/works/OL27448W", b.Key)
		assert.Equal(t, []string{"J.R.R. Tolkien"}, b.AuthorNames)
		assert.Equal(t, 14625765, b.CoverID)
		assert.Equal(t, 1954, b.FirstPublishYear)
		assert.Equal(t, []string{"eng", "fre"}, b.Languages)
		assert.Equal(t, 120, b.EditionCount)
		assert.Equal(t, []string{"Fantasy"}, b.Subjects)
	})

	t.Run("coerces a single language to a list", func(t *testing.T) {
		var b Book
		require.NoError(t, json.Unmarshal([]byte(`{"title":"X","language":"spa"}`), &b))
		assert.Equal(t, []string{"spa"}, b.Languages)
	})

	t.Run("falls back to authors and year", func(t *testing.T) {
		var b Book
		require.NoError(t, json.Unmarshal([]byte(`{"title":"X","authors":["A","B"],"year":"1999"}`), &b))
		assert.Equal(t, []string{"A", "B"}, b.AuthorNames)
		assert.Equal(t, 1999, b.FirstPublishYear)
	})

	t.Run("drops placeholder years and null covers", func(t *testing.T) {
		var b Book
		require.NoError(t, json.Unmarshal([]byte(`{"title":"X","first_publish_year":"N/A","cover_i":null}`), &b))
		assert.Zero(t, b.FirstPublishYear)
		assert.Zero(t, b.CoverID)
	})

	t.Run("ignores unexpected shapes instead of failing", func(t *testing.T) {
		var b Book
		data := `{"title":"X","author_name":{"odd":true},"language":[{"key":"/languages/eng"}, "ger", 7]}`
		require.NoError(t, json.Unmarshal([]byte(data), &b))
		assert.Empty(t, b.AuthorNames)
		assert.Equal(t, []string{"ger", "7"}, b.Languages)
	})
}

func TestBook_ID(t *testing.T) {
	tests := []struct {
		name     string
		book     Book
		expected string
	}{
		{"canonical key wins", Book{Key: "/works/OL1W", CoverEditionKey: "OL2M", Title: "T"}, "/works/OL1W"},
		{"edition key fallback", Book{CoverEditionKey: "OL2M", Title: "T"}, "/books/OL2M"},
		{"title fallback", Book{Title: "Untitled Key"}, "Untitled Key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.book.ID())
		})
	}
}

func TestNewFavorite(t *testing.T) {
	t.Run("projects summary fields", func(t *testing.T) {
		fav := NewFavorite(Book{
			Key:              "/works/OL1W",
			Title:            "Dune",
			AuthorNames:      []string{"Frank Herbert"},
			CoverID:          42,
			FirstPublishYear: 1965,
			Languages:        []string{"eng"},
			EditionCount:     10,
		})

		assert.Equal(t, Favorite{
			Key:              "/works/OL1W",
			Title:            "Dune",
			AuthorNames:      []string{"Frank Herbert"},
			CoverID:          42,
			FirstPublishYear: 1965,
			Languages:        []string{"eng"},
		}, fav)
	})

	t.Run("fills defaults for missing fields", func(t *testing.T) {
		fav := NewFavorite(Book{Title: "No Key"})

		assert.Equal(t, "No Key", fav.Key)
		assert.Equal(t, []string{}, fav.AuthorNames)
		assert.Equal(t, []string{UnknownLanguage}, fav.Languages)
	})
}

func TestFavorite_UnmarshalJSON_LegacyShape(t *testing.T) {
	data := `[{"key":"Some Title","title":"Some Title","author_name":[],"cover_i":null,"first_publish_year":"N/A","language":["UNKNOWN"]}]`

	var favs []Favorite
	require.NoError(t, json.Unmarshal([]byte(data), &favs))
	require.Len(t, favs, 1)

	assert.Equal(t, "Some Title", favs[0].Key)
	assert.Zero(t, favs[0].CoverID)
	assert.Zero(t, favs[0].FirstPublishYear)
	assert.Equal(t, []string{"UNKNOWN"}, favs[0].Languages)
	assert.Equal(t, "Some Title", favs[0].Book().ID())
}

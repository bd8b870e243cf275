package entities

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Book is the normalized summary of one OpenLibrary search document.
// JSON field names follow the OpenLibrary search API so that stored values stay
// readable by anything that understands the upstream shape.
type Book struct {
	Key              string   `json:"key,omitempty"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name,omitempty"`
	CoverID          int      `json:"cover_i,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	Languages        []string `json:"language,omitempty"`
	CoverEditionKey  string   `json:"cover_edition_key,omitempty"`
	EditionCount     int      `json:"edition_count,omitempty"`
	Subjects         []string `json:"subject,omitempty"`
	SubjectFacets    []string `json:"subject_facet,omitempty"`
	SubjectKeys      []string `json:"subject_key,omitempty"`
}

// ID returns the identity used for favorites: the canonical key, then the
// cover edition key under /books/, then the title.
func (b Book) ID() string {
	if b.Key != "" {
		return b.Key
	}
	if b.CoverEditionKey != "" {
		return "/books/" + b.CoverEditionKey
	}
	return b.Title
}

// HasLanguages reports whether the document carried any language codes.
func (b Book) HasLanguages() bool {
	return len(b.Languages) > 0
}

// rawBook accepts every shape seen in search documents and stored favorites.
type rawBook struct {
	Key              flexString  `json:"key"`
	Title            flexString  `json:"title"`
	AuthorName       flexStrings `json:"author_name"`
	Authors          flexStrings `json:"authors"`
	CoverI           flexInt     `json:"cover_i"`
	FirstPublishYear flexInt     `json:"first_publish_year"`
	Year             flexInt     `json:"year"`
	Language         flexStrings `json:"language"`
	CoverEditionKey  flexString  `json:"cover_edition_key"`
	EditionCount     flexInt     `json:"edition_count"`
	Subject          flexStrings `json:"subject"`
	SubjectFacet     flexStrings `json:"subject_facet"`
	SubjectKey       flexStrings `json:"subject_key"`
}

// UnmarshalJSON decodes a book leniently: authors fall back to "authors",
// a single language string becomes a one-element list, and years given as
// strings or placeholders such as "N/A" are parsed or dropped.
func (b *Book) UnmarshalJSON(data []byte) error {
	var raw rawBook
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Book{
		Key:              string(raw.Key),
		Title:            string(raw.Title),
		AuthorNames:      []string(raw.AuthorName),
		CoverID:          int(raw.CoverI),
		FirstPublishYear: int(raw.FirstPublishYear),
		Languages:        []string(raw.Language),
		CoverEditionKey:  string(raw.CoverEditionKey),
		EditionCount:     int(raw.EditionCount),
		Subjects:         []string(raw.Subject),
		SubjectFacets:    []string(raw.SubjectFacet),
		SubjectKeys:      []string(raw.SubjectKey),
	}
	if len(b.AuthorNames) == 0 {
		b.AuthorNames = []string(raw.Authors)
	}
	if b.FirstPublishYear == 0 {
		b.FirstPublishYear = int(raw.Year)
	}
	return nil
}

// flexString accepts a JSON string or number; anything else decodes as "".
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexString(num.String())
		return nil
	}
	*s = ""
	return nil
}

// flexStrings accepts a list or a single scalar. Objects with a "name" field
// contribute that name, other objects are skipped.
type flexStrings []string

func (s *flexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if data[0] != '[' {
		if v, ok := scalarString(data); ok {
			*s = flexStrings{v}
		} else {
			*s = nil
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*s = nil
		return nil
	}
	out := make(flexStrings, 0, len(items))
	for _, item := range items {
		if v, ok := scalarString(item); ok {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

func scalarString(data []byte) (string, bool) {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		return str, true
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		return num.String(), true
	}
	var named struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &named); err == nil && named.Name != "" {
		return named.Name, true
	}
	return "", false
}

// flexInt accepts a JSON number or a numeric string; anything else decodes as 0.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		if n, err := num.Int64(); err == nil {
			*i = flexInt(n)
			return nil
		}
		if f, err := num.Float64(); err == nil {
			*i = flexInt(int(f))
			return nil
		}
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			*i = flexInt(n)
			return nil
		}
	}
	*i = 0
	return nil
}

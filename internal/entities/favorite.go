package entities

import "encoding/json"

// UnknownLanguage is stored for books that carried no language codes.
const UnknownLanguage = "UNKNOWN"

// Favorite is the reduced projection of a Book kept in durable storage.
// Key is the Book.ID() at the moment the favorite was created.
type Favorite struct {
	Key              string   `json:"key" yaml:"key"`
	Title            string   `json:"title" yaml:"title"`
	AuthorNames      []string `json:"author_name" yaml:"authors"`
	CoverID          int      `json:"cover_i,omitempty" yaml:"cover_id,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty" yaml:"first_publish_year,omitempty"`
	Languages        []string `json:"language" yaml:"languages"`
}

// NewFavorite projects a book into a favorite record.
func NewFavorite(b Book) Favorite {
	authors := b.AuthorNames
	if authors == nil {
		authors = []string{}
	}
	languages := b.Languages
	if len(languages) == 0 {
		languages = []string{UnknownLanguage}
	}
	return Favorite{
		Key:              b.ID(),
		Title:            b.Title,
		AuthorNames:      authors,
		CoverID:          b.CoverID,
		FirstPublishYear: b.FirstPublishYear,
		Languages:        languages,
	}
}

// Book turns the favorite back into a summary so it can be shown as a card.
func (f Favorite) Book() Book {
	return Book{
		Key:              f.Key,
		Title:            f.Title,
		AuthorNames:      f.AuthorNames,
		CoverID:          f.CoverID,
		FirstPublishYear: f.FirstPublishYear,
		Languages:        f.Languages,
	}
}

// UnmarshalJSON reuses the lenient Book decoding, so records written with
// null covers or "N/A" years still load.
func (f *Favorite) UnmarshalJSON(data []byte) error {
	var b Book
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*f = Favorite{
		Key:              b.Key,
		Title:            b.Title,
		AuthorNames:      b.AuthorNames,
		CoverID:          b.CoverID,
		FirstPublishYear: b.FirstPublishYear,
		Languages:        b.Languages,
	}
	if f.AuthorNames == nil {
		f.AuthorNames = []string{}
	}
	return nil
}

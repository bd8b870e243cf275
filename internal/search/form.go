package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// ErrUnknownLanguage is returned by Form.Validate for a language code
// outside Languages.
var ErrUnknownLanguage = errors.New("unknown language code")

// Language is one entry of the language filter.
type Language struct {
	Code string
	Name string
}

// Label is the text shown in the language picker.
func (l Language) Label() string {
	return fmt.Sprintf("%s (%s)", l.Name, l.Code)
}

// Languages lists the accepted language filter values in display order.
var Languages = []Language{
	{"ENG", "English"},
	{"FRE", "French"},
	{"SPA", "Spanish"},
	{"GER", "German"},
	{"ITA", "Italian"},
	{"POR", "Portuguese"},
	{"HIN", "Hindi"},
	{"TAM", "Tamil"},
	{"TEL", "Telugu"},
	{"URD", "Urdu"},
	{"BEN", "Bengali"},
	{"CHI", "Chinese"},
	{"JPN", "Japanese"},
	{"KOR", "Korean"},
	{"RUS", "Russian"},
	{"ARA", "Arabic"},
	{"NLD", "Dutch"},
	{"SWE", "Swedish"},
	{"POL", "Polish"},
	{"TUR", "Turkish"},
	{"THA", "Thai"},
	{"VIE", "Vietnamese"},
	{"IND", "Indonesian"},
	{"MAL", "Malay"},
	{"GUJ", "Gujarati"},
	{"KAN", "Kannada"},
	{"MAR", "Marathi"},
	{"PAN", "Punjabi"},
	{"ELL", "Greek"},
	{"HEB", "Hebrew"},
}

// IsLanguage reports whether code is one of Languages. Matching is case-insensitive.
func IsLanguage(code string) bool {
	code = strings.ToUpper(code)
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Form holds the raw values of the search form.
type Form struct {
	Query    string `form:"q" json:"q"`
	Author   string `form:"author" json:"author"`
	Year     string `form:"year" json:"year"`
	Language string `form:"language" json:"language"`
}

// FormFromState returns the form showing query and filters.
func FormFromState(query string, f entities.Filters) Form {
	return Form{Query: query, Author: f.Author, Year: f.Year, Language: f.Language}
}

// ClearedForm returns the form after pressing Clear. Clearing never starts a search.
func ClearedForm() Form {
	return Form{}
}

// Filters returns the filter part of the form. The language code is upper-cased.
func (f Form) Filters() entities.Filters {
	return entities.Filters{
		Author:   f.Author,
		Year:     f.Year,
		Language: strings.ToUpper(strings.TrimSpace(f.Language)),
	}
}

// Validate rejects language codes that are not offered by the picker.
// A blank query is not a form error; the orchestrator reports it.
func (f Form) Validate() error {
	lang := strings.TrimSpace(f.Language)
	if lang != "" && !IsLanguage(lang) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return nil
}

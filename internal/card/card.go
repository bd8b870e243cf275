// Package card builds the display model of a book summary.
package card

import (
	"strconv"
	"strings"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

const (
	maxAuthors    = 3
	UnknownAuthor = "Unknown Author"
	UnknownYear   = "N/A"
	authorSep     = ", "
	languageSep   = ", "
)

// CoverFunc resolves a cover id to an image URL. An empty result means no cover.
type CoverFunc func(id int, size openlibrary.CoverSize) string

// Card is what a result or favorite tile shows.
type Card struct {
	ID        string
	Title     string
	Authors   string
	Year      string
	Languages string
	CoverURL  string
	Favorite  bool
	Book      entities.Book
}

// New builds the card for book. cover may be nil, in which case no cover URL is set.
func New(book entities.Book, isFavorite bool, cover CoverFunc) Card {
	c := Card{
		ID:        book.ID(),
		Title:     book.Title,
		Authors:   Authors(book.AuthorNames),
		Year:      Year(book.FirstPublishYear),
		Languages: Languages(book.Languages),
		Favorite:  isFavorite,
		Book:      book,
	}
	if cover != nil && book.CoverID > 0 {
		c.CoverURL = cover(book.CoverID, openlibrary.CoverMedium)
	}
	return c
}

// List builds cards for books, marking those whose id is in favorites.
func List(books []entities.Book, favorites map[string]bool, cover CoverFunc) []Card {
	cards := make([]Card, 0, len(books))
	for _, b := range books {
		cards = append(cards, New(b, favorites[b.ID()], cover))
	}
	return cards
}

// Authors joins at most three names, or returns UnknownAuthor.
func Authors(names []string) string {
	if len(names) == 0 {
		return UnknownAuthor
	}
	if len(names) > maxAuthors {
		names = names[:maxAuthors]
	}
	return strings.Join(names, authorSep)
}

// Year formats a publication year, or returns UnknownYear.
func Year(year int) string {
	if year == 0 {
		return UnknownYear
	}
	return strconv.Itoa(year)
}

// Languages upper-cases and joins language codes, or returns UNKNOWN.
func Languages(codes []string) string {
	if len(codes) == 0 {
		return entities.UnknownLanguage
	}
	upper := make([]string, len(codes))
	for i, code := range codes {
		upper[i] = strings.ToUpper(code)
	}
	return strings.Join(upper, languageSep)
}

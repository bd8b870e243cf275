// Package details assembles the expanded view of a single book.
//
// The summary part renders from the search result alone. Subjects need a
// second request for the work and are loaded separately, so callers can show
// the summary first and fill the subjects in when they arrive.
package details

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

// MaxSubjects caps the number of subjects shown for a book.
const MaxSubjects = 10

// Placeholder is shown for missing first-published year and edition count.
const Placeholder = "—"

// WorkFetcher loads the work record for a key.
type WorkFetcher interface {
	FetchWork(ctx context.Context, key string) (*entities.Work, error)
}

// VisitRecorder remembers that the user left for an OpenLibrary page.
type VisitRecorder interface {
	RecordVisit() error
}

// Summary is the immediately available part of the details view.
type Summary struct {
	Key            string
	Title          string
	Authors        string
	CoverURL       string
	FirstPublished string
	Editions       string
	Languages      string
	PageURL        string
}

type Service struct {
	works  WorkFetcher
	visits VisitRecorder
	urls   openlibrary.URLs
	cover  card.CoverFunc
	logger *zap.Logger
}

// NewService creates a details service. cover resolves cover ids to image
// URLs; when nil the OpenLibrary covers host is used directly.
func NewService(works WorkFetcher, visits VisitRecorder, urls openlibrary.URLs, cover card.CoverFunc, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cover == nil {
		cover = urls.CoverURL
	}
	return &Service{works: works, visits: visits, urls: urls, cover: cover, logger: logger}
}

// Summary renders the fields available without a network call.
func (s *Service) Summary(book entities.Book) Summary {
	sum := Summary{
		Key:            book.ID(),
		Title:          book.Title,
		Authors:        allAuthors(book.AuthorNames),
		FirstPublished: Placeholder,
		Editions:       Placeholder,
		Languages:      card.Languages(book.Languages),
		PageURL:        s.urls.PageURL(book.Key),
	}
	if book.CoverID > 0 {
		sum.CoverURL = s.cover(book.CoverID, openlibrary.CoverLarge)
	}
	if book.FirstPublishYear != 0 {
		sum.FirstPublished = strconv.Itoa(book.FirstPublishYear)
	}
	if book.EditionCount > 0 {
		sum.Editions = strconv.Itoa(book.EditionCount)
	}
	return sum
}

// Subjects returns up to MaxSubjects subjects for book. The fetched work's
// subjects win; otherwise the first non-empty of the summary's subject_facet,
// subject and subject_key lists is used. Fetch failures are not reported.
func (s *Service) Subjects(ctx context.Context, book entities.Book) []string {
	var fetched []string
	if book.Key != "" && s.works != nil {
		work, err := s.works.FetchWork(ctx, book.Key)
		if err != nil {
			s.logger.Debug("Failed to load work subjects", zap.String("key", book.Key), zap.Error(err))
		} else if work != nil {
			fetched = work.Subjects
		}
	}

	for _, candidate := range [][]string{fetched, book.SubjectFacets, book.Subjects, book.SubjectKeys} {
		if len(candidate) > 0 {
			return limit(candidate, MaxSubjects)
		}
	}
	return nil
}

// Open records the visit and returns the page to navigate to. The URL is
// returned even when recording fails.
func (s *Service) Open(ctx context.Context, book entities.Book) (string, error) {
	pageURL := s.urls.PageURL(book.Key)
	if s.visits == nil {
		return pageURL, nil
	}
	if err := s.visits.RecordVisit(); err != nil {
		s.logger.Warn("Failed to record last visit", zap.Error(err))
		return pageURL, err
	}
	return pageURL, nil
}

func allAuthors(names []string) string {
	if len(names) == 0 {
		return card.UnknownAuthor
	}
	return strings.Join(names, ", ")
}

func limit(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

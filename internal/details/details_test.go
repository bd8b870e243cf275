package details

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

type stubWorks struct {
	work  *entities.Work
	err   error
	calls []string
}

func (s *stubWorks) FetchWork(_ context.Context, key string) (*entities.Work, error) {
	s.calls = append(s.calls, key)
	return s.work, s.err
}

type stubVisits struct {
	count int
	err   error
}

func (s *stubVisits) RecordVisit() error {
	s.count++
	return s.err
}

var testURLs = openlibrary.URLs{Base: "https://openlibrary.org", Covers: "https://covers.openlibrary.org"}

func manySubjects(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + string(rune('a'+i))
	}
	return out
}

func TestService_Summary(t *testing.T) {
	svc := NewService(nil, nil, testURLs, nil, nil)

	t.Run("complete book", func(t *testing.T) {
		sum := svc.Summary(entities.Book{
			Key:              "/works/OL1W",
			Title:            "Dune",
			AuthorNames:      []string{"A", "B", "C", "D"},
			CoverID:          42,
			FirstPublishYear: 1965,
			EditionCount:     120,
			Languages:        []string{"eng"},
		})

		assert.Equal(t, "A, B, C, D", sum.Authors)
		assert.Equal(t, "https://covers.openlibrary.org/b/id/42-L.jpg", sum.CoverURL)
		assert.Equal(t, "1965", sum.FirstPublished)
		assert.Equal(t, "120", sum.Editions)
		assert.Equal(t, "ENG", sum.Languages)
		assert.Equal(t, "https://openlibrary.org/works/OL1W", sum.PageURL)
	})

	t.Run("placeholders", func(t *testing.T) {
		sum := svc.Summary(entities.Book{Title: "Bare"})

		assert.Equal(t, "Unknown Author", sum.Authors)
		assert.Empty(t, sum.CoverURL)
		assert.Equal(t, Placeholder, sum.FirstPublished)
		assert.Equal(t, Placeholder, sum.Editions)
		assert.Equal(t, "https://openlibrary.org", sum.PageURL)
	})
}

func TestService_Subjects(t *testing.T) {
	ctx := context.Background()

	t.Run("fetched subjects win and are capped", func(t *testing.T) {
		works := &stubWorks{work: &entities.Work{Subjects: manySubjects("w", 15)}}
		svc := NewService(works, nil, testURLs, nil, nil)

		subjects := svc.Subjects(ctx, entities.Book{Key: "/works/OL1W", SubjectFacets: []string{"facet"}})

		assert.Len(t, subjects, MaxSubjects)
		assert.Equal(t, "wa", subjects[0])
		assert.Equal(t, []string{"/works/OL1W"}, works.calls)
	})

	t.Run("priority order of summary fields", func(t *testing.T) {
		works := &stubWorks{work: &entities.Work{}}
		svc := NewService(works, nil, testURLs, nil, nil)

		book := entities.Book{
			Key:         "/works/OL1W",
			Subjects:    []string{"subject"},
			SubjectKeys: []string{"key"},
		}
		assert.Equal(t, []string{"subject"}, svc.Subjects(ctx, book))

		book.SubjectFacets = []string{"facet"}
		assert.Equal(t, []string{"facet"}, svc.Subjects(ctx, book))

		assert.Equal(t, []string{"key"}, svc.Subjects(ctx, entities.Book{Key: "/works/OL1W", SubjectKeys: []string{"key"}}))
	})

	t.Run("fetch failure is swallowed", func(t *testing.T) {
		works := &stubWorks{err: openlibrary.ErrUnavailable}
		svc := NewService(works, nil, testURLs, nil, nil)

		assert.Equal(t, []string{"s"}, svc.Subjects(ctx, entities.Book{Key: "/works/OL1W", Subjects: []string{"s"}}))
		assert.Nil(t, svc.Subjects(ctx, entities.Book{Key: "/works/OL1W"}))
	})

	t.Run("no key skips the fetch", func(t *testing.T) {
		works := &stubWorks{}
		svc := NewService(works, nil, testURLs, nil, nil)

		svc.Subjects(ctx, entities.Book{Title: "No key"})
		assert.Empty(t, works.calls)
	})
}

func TestService_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("records visit", func(t *testing.T) {
		visits := &stubVisits{}
		svc := NewService(nil, visits, testURLs, nil, nil)

		url, err := svc.Open(ctx, entities.Book{Key: "/works/OL1W"})
		require.NoError(t, err)
		assert.Equal(t, "https://openlibrary.org/works/OL1W", url)
		assert.Equal(t, 1, visits.count)
	})

	t.Run("returns url when recording fails", func(t *testing.T) {
		visits := &stubVisits{err: errors.New("disk full")}
		svc := NewService(nil, visits, testURLs, nil, nil)

		url, err := svc.Open(ctx, entities.Book{Key: "/works/OL1W"})
		assert.Error(t, err)
		assert.Equal(t, "https://openlibrary.org/works/OL1W", url)
	})
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/details"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
	"github.com/mrlokans/bookfinder/internal/search"
)

// APIController exposes stateless search and work lookups as JSON.
type APIController struct {
	searcher openlibrary.Searcher
	works    details.WorkFetcher
	urls     openlibrary.URLs
	pageSize int
	logger   *zap.Logger
}

func NewAPIController(searcher openlibrary.Searcher, works details.WorkFetcher, urls openlibrary.URLs, pageSize int, logger *zap.Logger) *APIController {
	if pageSize < 1 {
		pageSize = openlibrary.DefaultLimit
	}
	return &APIController{searcher: searcher, works: works, urls: urls, pageSize: pageSize, logger: logger}
}

// SearchResponse is one page of results.
type SearchResponse struct {
	Query      string           `json:"query"`
	Filters    entities.Filters `json:"filters"`
	Page       int              `json:"page"`
	NumFound   int              `json:"numFound"`
	TotalPages int              `json:"totalPages"`
	Results    []entities.Book  `json:"results"`
}

// WorkResponse is the extended metadata of a work.
type WorkResponse struct {
	Work     *entities.Work `json:"work"`
	Subjects []string       `json:"subjects"`
	PageURL  string         `json:"pageUrl"`
}

// Search runs one search without touching any session.
// GET /api/search?q=...&author=...&year=...&language=...&page=N
func (ac *APIController) Search(c *gin.Context) {
	form := search.Form{
		Query:    c.Query("q"),
		Author:   c.Query("author"),
		Year:     c.Query("year"),
		Language: c.Query("language"),
	}
	if form.Query == "" {
		respondError(c, http.StatusBadRequest, "q is required", "missing_query")
		return
	}
	if err := form.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), "invalid_filter")
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "page must be a positive integer", "invalid_page")
			return
		}
		page = n
	}

	filters := form.Filters()
	res, err := ac.searcher.Search(c.Request.Context(), openlibrary.Query{
		Q:        form.Query,
		Author:   filters.Author,
		Year:     filters.Year,
		Language: filters.Language,
		Page:     page,
		Limit:    ac.pageSize,
	})
	if err != nil {
		ac.respondUpstream(c, err)
		return
	}

	results := search.FilterByLanguage(res.Items, filters.Language)
	c.JSON(http.StatusOK, SearchResponse{
		Query:      form.Query,
		Filters:    filters,
		Page:       page,
		NumFound:   res.TotalCount,
		TotalPages: search.TotalPages(res.TotalCount, ac.pageSize),
		Results:    results,
	})
}

// Work returns the work record with its first subjects.
// GET /api/books/details?key=/works/OL1W
func (ac *APIController) Work(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		respondError(c, http.StatusBadRequest, "key is required", "missing_key")
		return
	}

	work, err := ac.works.FetchWork(c.Request.Context(), openlibrary.WorkKey(key))
	if err != nil {
		ac.respondUpstream(c, err)
		return
	}

	subjects := work.Subjects
	if len(subjects) > details.MaxSubjects {
		subjects = subjects[:details.MaxSubjects]
	}
	if subjects == nil {
		subjects = []string{}
	}
	c.JSON(http.StatusOK, WorkResponse{
		Work:     work,
		Subjects: subjects,
		PageURL:  ac.urls.PageURL(openlibrary.WorkKey(key)),
	})
}

func (ac *APIController) respondUpstream(c *gin.Context, err error) {
	ac.logger.Warn("OpenLibrary request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	switch {
	case errors.Is(err, openlibrary.ErrTimeout):
		respondError(c, http.StatusGatewayTimeout, "OpenLibrary did not respond in time", "upstream_timeout")
	default:
		respondError(c, http.StatusBadGateway, "Failed to fetch data from OpenLibrary", "upstream_error")
	}
}

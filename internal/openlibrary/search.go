package openlibrary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// DefaultLimit is the page size used when a query does not set one.
const DefaultLimit = 12

// Query describes one page of a search.
type Query struct {
	Q        string
	Author   string
	Year     string
	Language string
	Page     int
	Limit    int
}

// Result is one page of normalized search results. TotalCount is the number
// of matches reported by the server across all pages.
type Result struct {
	Items      []entities.Book
	TotalCount int
}

// Empty returns a result with no items and a zero total.
func Empty() Result {
	return Result{Items: []entities.Book{}}
}

// Searcher runs one search request.
type Searcher interface {
	Search(ctx context.Context, q Query) (Result, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, q Query) (Result, error)

func (f SearcherFunc) Search(ctx context.Context, q Query) (Result, error) {
	return f(ctx, q)
}

// Lossy wraps a searcher so that every failure becomes an empty result and a
// nil error. Callers then cannot tell a failed request from a query with no
// matches.
func Lossy(s Searcher) Searcher {
	return SearcherFunc(func(ctx context.Context, q Query) (Result, error) {
		res, err := s.Search(ctx, q)
		if err != nil {
			return Empty(), nil
		}
		return res, nil
	})
}

// Params builds the search query string. Blank optional fields are left out.
func (q Query) Params() url.Values {
	params := url.Values{}
	params.Set("q", strings.TrimSpace(q.Q))

	if author := strings.TrimSpace(q.Author); author != "" {
		params.Set("author", author)
	}
	if year := strings.TrimSpace(q.Year); year != "" {
		params.Set("first_publish_year", year)
	}
	if language := strings.TrimSpace(q.Language); language != "" {
		params.Set("language", strings.ToLower(language))
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	return params
}

// SearchBooks runs a search and never fails: blank queries, timeouts,
// transport errors, bad statuses and malformed bodies all yield Empty().
func (c *Client) SearchBooks(ctx context.Context, q Query) Result {
	res, err := c.Search(ctx, q)
	if err != nil {
		return Empty()
	}
	return res
}

// Search runs a search and reports why it failed. A blank query returns
// Empty() and a nil error without touching the network.
func (c *Client) Search(ctx context.Context, q Query) (Result, error) {
	if strings.TrimSpace(q.Q) == "" {
		return Empty(), nil
	}

	searchURL := fmt.Sprintf("%s/search.json?%s", c.urls.Base, q.Params().Encode())

	resp, cancel, err := c.get(ctx, searchURL)
	if err != nil {
		c.logger.Debug("Search request failed", zap.String("query", q.Q), zap.Int("page", q.Page), zap.Error(err))
		return Empty(), err
	}
	defer cancel()
	defer resp.Body.Close()

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Debug("Search response decode failed", zap.String("query", q.Q), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return Empty(), fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Empty(), fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return Result{
		Items:      body.books(),
		TotalCount: body.totalCount(),
	}, nil
}

// OpenLibrary API response types (internal)

type searchResponse struct {
	Docs        json.RawMessage `json:"docs"`
	NumFound    json.RawMessage `json:"numFound"`
	NumFoundAlt json.RawMessage `json:"num_found"`
}

// books decodes docs one by one; a non-list docs field means no books and
// documents that are not objects are skipped.
func (r searchResponse) books() []entities.Book {
	books := []entities.Book{}
	if !bytes.HasPrefix(bytes.TrimSpace(r.Docs), []byte("[")) {
		return books
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(r.Docs, &docs); err != nil {
		return books
	}
	for _, doc := range docs {
		if !bytes.HasPrefix(bytes.TrimSpace(doc), []byte("{")) {
			continue
		}
		var b entities.Book
		if err := json.Unmarshal(doc, &b); err != nil {
			continue
		}
		books = append(books, b)
	}
	return books
}

// totalCount prefers a numeric numFound, then num_found, then zero.
func (r searchResponse) totalCount() int {
	if n, ok := jsonInt(r.NumFound); ok {
		return n
	}
	if n, ok := jsonInt(r.NumFoundAlt); ok {
		return n
	}
	return 0
}

func jsonInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return int(n), true
}

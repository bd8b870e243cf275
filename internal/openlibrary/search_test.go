package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Options{
		BaseURL:   serverURL,
		CoversURL: "https://covers.example.org",
		Timeout:   2 * time.Second,
	})
}

func TestQueryParams(t *testing.T) {
	t.Run("includes only non-empty filters", func(t *testing.T) {
		params := Query{Q: "  tolkien  ", Page: 2, Limit: 12}.Params()

		assert.Equal(t, "tolkien", params.Get("q"))
		assert.Equal(t, "2", params.Get("page"))
		assert.Equal(t, "12", params.Get("limit"))
		assert.False(t, params.Has("author"))
		assert.False(t, params.Has("first_publish_year"))
		assert.False(t, params.Has("language"))
	})

	t.Run("trims filters and lower-cases language", func(t *testing.T) {
		params := Query{Q: "rings", Author: " Tolkien ", Year: " 1954 ", Language: "FRE"}.Params()

		assert.Equal(t, "Tolkien", params.Get("author"))
		assert.Equal(t, "1954", params.Get("first_publish_year"))
		assert.Equal(t, "fre", params.Get("language"))
	})

	t.Run("defaults page and limit", func(t *testing.T) {
		params := Query{Q: "x"}.Params()

		assert.Equal(t, "1", params.Get("page"))
		assert.Equal(t, "12", params.Get("limit"))
	})
}

func TestSearch_BlankQueryMakesNoRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	for _, q := range []string{"", " ", "\t\n  "} {
		res, err := client.Search(context.Background(), Query{Q: q})
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
		assert.Zero(t, res.TotalCount)

		lossy := client.SearchBooks(context.Background(), Query{Q: q})
		assert.Empty(t, lossy.Items)
		assert.Zero(t, lossy.TotalCount)
	}

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "tolkien", r.URL.Query().Get("q"))
		assert.Equal(t, "eng", r.URL.Query().Get("language"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"numFound": 812,
			"docs": [
				{"key": "/works/OL27448W", "title": "The Lord of the Rings", "author_name": ["J.R.R. Tolkien"], "cover_i": 1, "language": ["eng"]},
				{"key": "/works/OL262758W", "title": "The Hobbit", "author_name": ["J.R.R. Tolkien"], "language": "eng"}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Search(context.Background(), Query{Q: "tolkien", Language: "ENG", Page: 1, Limit: 12})

	require.NoError(t, err)
	assert.Equal(t, 812, res.TotalCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "The Hobbit", res.Items[1].Title)
	assert.Equal(t, []string{"eng"}, res.Items[1].Languages)
}

func TestSearch_TotalCountFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"numFound", `{"numFound": 5, "docs": []}`, 5},
		{"num_found", `{"num_found": 7, "docs": []}`, 7},
		{"numFound wins", `{"numFound": 3, "num_found": 9, "docs": []}`, 3},
		{"non-numeric numFound falls back", `{"numFound": "many", "num_found": 4, "docs": []}`, 4},
		{"missing count", `{"docs": []}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			res, err := newTestClient(server.URL).Search(context.Background(), Query{Q: "x"})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.TotalCount)
		})
	}
}

func TestSearch_MissingOrOddDocs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numFound": 2, "docs": {"not": "a list"}}`))
	}))
	defer server.Close()

	res, err := newTestClient(server.URL).Search(context.Background(), Query{Q: "x"})

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 2, res.TotalCount)
}

func TestSearch_Failures(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.Search(context.Background(), Query{Q: "x"})
		assert.ErrorIs(t, err, ErrBadStatus)

		res := client.SearchBooks(context.Background(), Query{Q: "x"})
		assert.Empty(t, res.Items)
		assert.Zero(t, res.TotalCount)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"docs": [`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Search(context.Background(), Query{Q: "x"})
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client := NewClient(Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
		_, err := client.Search(context.Background(), Query{Q: "x"})
		assert.ErrorIs(t, err, ErrTimeout)

		res := client.SearchBooks(context.Background(), Query{Q: "x"})
		assert.Empty(t, res.Items)
	})

	t.Run("unreachable host", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := newTestClient(url).Search(context.Background(), Query{Q: "x"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestLossy(t *testing.T) {
	failing := SearcherFunc(func(ctx context.Context, q Query) (Result, error) {
		return Result{}, ErrUnavailable
	})

	res, err := Lossy(failing).Search(context.Background(), Query{Q: "x"})

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.TotalCount)
}

package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
	"github.com/mrlokans/bookfinder/internal/search"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Database.Path = filepath.Join(dir, "bookfinder.db")
	cfg.OpenLibrary.BaseURL = baseURL
	cfg.OpenLibrary.CoversURL = "https://covers.example.org"
	cfg.OpenLibrary.Timeout = 2 * time.Second
	cfg.Search.PageSize = 12
	cfg.Search.ReportFailures = true
	return cfg
}

func TestCoversDir(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Path = "/var/lib/bookfinder/bookfinder.db"
	assert.Equal(t, "/var/lib/bookfinder/covers", CoversDir(cfg))

	cfg.Covers.Dir = "/tmp/covers"
	assert.Equal(t, "/tmp/covers", CoversDir(cfg))
}

func TestNewApp(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0")

	app, err := NewApp(cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Covers)
	assert.Equal(t, filepath.Join(filepath.Dir(cfg.Database.Path), "covers"), app.Covers.CacheDir())
	assert.Empty(t, app.Favorites.List())
}

func TestApp_SearcherHonoursFailureReporting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	app, err := NewApp(cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	q := openlibrary.Query{Q: "hobbit", Page: 1}

	_, err = app.Searcher().Search(context.Background(), q)
	assert.ErrorIs(t, err, openlibrary.ErrBadStatus)

	cfg.Search.ReportFailures = false
	res, err := app.Searcher().Search(context.Background(), q)
	assert.NoError(t, err)
	assert.Empty(t, res.Items)

	cfg.Search.ReportFailures = true
	v := app.NewOrchestrator(search.NewMemorySnapshots()).Submit(context.Background(), search.Form{Query: "hobbit"})
	assert.Equal(t, search.StateErrored, v.State)
}

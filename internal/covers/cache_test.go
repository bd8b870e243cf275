package covers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

func newTestCache(t *testing.T, coversURL string) *Cache {
	t.Helper()
	cache, err := NewCache(t.TempDir(), openlibrary.URLs{Covers: coversURL}, "test-agent", nil)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	return cache
}

func TestNewCache(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "covers")

	cache, err := NewCache(cacheDir, openlibrary.URLs{}, "", nil)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	if cache.CacheDir() != cacheDir {
		t.Errorf("expected cache dir %s, got %s", cacheDir, cache.CacheDir())
	}

	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("cache directory was not created")
	}
}

func TestGetCover_NoCover(t *testing.T) {
	cache := newTestCache(t, "http://unused")

	_, err := cache.GetCover(context.Background(), 0, openlibrary.CoverMedium)
	if !errors.Is(err, ErrNoCover) {
		t.Errorf("expected ErrNoCover, got %v", err)
	}
}

func TestGetCover_FetchAndCache(t *testing.T) {
	var requests atomic.Int32
	var gotPath, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		gotPath = r.URL.Path
		gotAgent = r.UserAgent()
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("fake image data"))
	}))
	defer server.Close()

	cache := newTestCache(t, server.URL)
	ctx := context.Background()

	path1, err := cache.GetCover(ctx, 42, openlibrary.CoverLarge)
	if err != nil {
		t.Fatalf("GetCover failed: %v", err)
	}
	if gotPath != "/b/id/42-L.jpg" {
		t.Errorf("unexpected upstream path %s", gotPath)
	}
	if gotAgent != "test-agent" {
		t.Errorf("unexpected user agent %q", gotAgent)
	}

	data, err := os.ReadFile(path1)
	if err != nil {
		t.Fatalf("cached file not readable: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("unexpected cached content %q", data)
	}

	path2, err := cache.GetCover(ctx, 42, openlibrary.CoverLarge)
	if err != nil {
		t.Fatalf("GetCover (cached) failed: %v", err)
	}
	if path1 != path2 {
		t.Error("expected same path for cached request")
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("expected 1 upstream request, got %d", n)
	}
	if !cache.Has(42, openlibrary.CoverLarge) {
		t.Error("Has should report the cached image")
	}
	if cache.Has(42, openlibrary.CoverSmall) {
		t.Error("Has should not report other sizes")
	}
}

func TestGetCover_DeduplicatesConcurrentDownloads(t *testing.T) {
	var requests atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		<-release
		_, _ = w.Write([]byte("img"))
	}))
	defer server.Close()

	cache := newTestCache(t, server.URL)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetCover(context.Background(), 7, openlibrary.CoverMedium); err != nil {
				t.Errorf("GetCover failed: %v", err)
			}
		}()
	}

	// let the goroutines pile up behind the first download
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := requests.Load(); n != 1 {
		t.Errorf("expected a single upstream request, got %d", n)
	}
}

func TestGetCover_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cache := newTestCache(t, server.URL)

	path, err := cache.GetCover(context.Background(), 1, openlibrary.CoverMedium)
	if err == nil {
		t.Error("expected error for 404 response")
	}
	if path != "" {
		t.Errorf("expected empty path on error, got %s", path)
	}
	if cache.Has(1, openlibrary.CoverMedium) {
		t.Error("failed download must not leave a cached file")
	}
}

func TestWarm(t *testing.T) {
	seen := make(map[string]bool)
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.Path] = true
		mu.Unlock()
		_, _ = w.Write([]byte("img"))
	}))
	defer server.Close()

	cache := newTestCache(t, server.URL)
	if err := cache.Warm(context.Background(), 9); err != nil {
		t.Fatalf("Warm failed: %v", err)
	}

	for _, p := range []string{"/b/id/9-M.jpg", "/b/id/9-L.jpg"} {
		if !seen[p] {
			t.Errorf("expected %s to be fetched", p)
		}
	}
}

func TestInvalidateCover(t *testing.T) {
	cache := newTestCache(t, "http://unused")

	for _, size := range []openlibrary.CoverSize{openlibrary.CoverSmall, openlibrary.CoverLarge} {
		if err := os.WriteFile(cache.Path(5, size), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	other := cache.Path(55, openlibrary.CoverSmall)
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := cache.InvalidateCover(5); err != nil {
		t.Fatalf("InvalidateCover failed: %v", err)
	}

	if cache.Has(5, openlibrary.CoverSmall) || cache.Has(5, openlibrary.CoverLarge) {
		t.Error("cover 5 should be removed")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("cover 55 should be kept")
	}
}

func TestPrune(t *testing.T) {
	cache := newTestCache(t, "http://unused")

	oldPath := cache.Path(1, openlibrary.CoverMedium)
	newPath := cache.Path(2, openlibrary.CoverMedium)
	foreign := filepath.Join(cache.CacheDir(), "notes.txt")
	for _, p := range []string{oldPath, newPath, foreign} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(foreign, past, past); err != nil {
		t.Fatal(err)
	}

	removed, err := cache.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed file, got %d", removed)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("old cover should be pruned")
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Error("recent cover should be kept")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("files not owned by the cache should be kept")
	}
}

func TestURLFunc(t *testing.T) {
	urls := openlibrary.URLs{Covers: "https://covers.example.org"}

	direct := URLFunc(nil, urls)
	if got := direct(42, openlibrary.CoverMedium); got != urls.CoverURL(42, openlibrary.CoverMedium) {
		t.Errorf("direct URL = %q", got)
	}

	cache, err := NewCache(t.TempDir(), urls, "test", nil)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	local := URLFunc(cache, urls)
	if got := local(42, openlibrary.CoverLarge); got != "/covers/42/L" {
		t.Errorf("local URL = %q, want /covers/42/L", got)
	}
	if got := local(0, openlibrary.CoverLarge); got != "" {
		t.Errorf("local URL for missing cover = %q, want empty", got)
	}
}

// Package covers caches OpenLibrary cover images on local disk.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

// ErrNoCover is returned for cover ids that cannot have an image.
var ErrNoCover = errors.New("covers: no cover for id")

const filePrefix = "cover_"

// Cache handles local caching of book cover images.
type Cache struct {
	cacheDir   string
	urls       openlibrary.URLs
	userAgent  string
	httpClient *http.Client
	group      singleflight.Group
	logger     *zap.Logger
}

// NewCache creates a new cover cache at the specified directory.
func NewCache(cacheDir string, urls openlibrary.URLs, userAgent string, logger *zap.Logger) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cache{
		cacheDir:  cacheDir,
		urls:      urls,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// GetCover returns the path of the cached image for a cover id and size,
// downloading it first when needed. Concurrent calls for the same image
// share one download.
func (c *Cache) GetCover(ctx context.Context, id int, size openlibrary.CoverSize) (string, error) {
	if id <= 0 {
		return "", ErrNoCover
	}
	if size == "" {
		size = openlibrary.CoverMedium
	}

	cachePath := c.Path(id, size)
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	_, err, shared := c.group.Do(cachePath, func() (any, error) {
		return nil, c.fetchAndCache(ctx, c.urls.CoverURL(id, size), cachePath)
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debug("Shared cover download", zap.Int("cover_id", id), zap.String("size", string(size)))
	}
	return cachePath, nil
}

// Warm downloads the medium and large images of a cover.
func (c *Cache) Warm(ctx context.Context, id int) error {
	for _, size := range []openlibrary.CoverSize{openlibrary.CoverMedium, openlibrary.CoverLarge} {
		if _, err := c.GetCover(ctx, id, size); err != nil {
			return fmt.Errorf("warm cover %d-%s: %w", id, size, err)
		}
	}
	return nil
}

// Has reports whether the image is already cached.
func (c *Cache) Has(id int, size openlibrary.CoverSize) bool {
	_, err := os.Stat(c.Path(id, size))
	return err == nil
}

// Path returns where the image for id and size is stored.
func (c *Cache) Path(id int, size openlibrary.CoverSize) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%s%d_%s.jpg", filePrefix, id, size))
}

// RemoteURL returns the upstream URL of an image.
func (c *Cache) RemoteURL(id int, size openlibrary.CoverSize) string {
	return c.urls.CoverURL(id, size)
}

// InvalidateCover removes every cached size of a cover.
func (c *Cache) InvalidateCover(id int) error {
	pattern := filepath.Join(c.cacheDir, fmt.Sprintf("%s%d_*", filePrefix, id))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// Prune removes cached images not modified within maxAge and returns how
// many were removed.
func (c *Cache) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(c.cacheDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// fetchAndCache downloads a cover image and saves it to the cache.
func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch cover: status %d", resp.StatusCode)
	}

	// Temp file in the same directory so the rename is atomic
	tmpFile, err := os.CreateTemp(c.cacheDir, "tmp_"+filePrefix)
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}
	tmpFile.Close()

	return os.Rename(tmpPath, cachePath)
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

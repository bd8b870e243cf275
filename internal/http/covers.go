package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

// CoversController serves cover images from the local cache.
type CoversController struct {
	cache  *covers.Cache
	logger *zap.Logger
}

// NewCoversController creates a new CoversController.
func NewCoversController(cache *covers.Cache, logger *zap.Logger) *CoversController {
	return &CoversController{
		cache:  cache,
		logger: logger,
	}
}

// GetCover serves a cached cover image.
// GET /covers/:id/:size
func (cc *CoversController) GetCover(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.Status(http.StatusBadRequest)
		return
	}
	size, ok := openlibrary.ParseCoverSize(c.Param("size"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	cachePath, err := cc.cache.GetCover(c.Request.Context(), id, size)
	if err != nil {
		cc.logger.Debug("Cover not cached, redirecting", zap.Int("cover_id", id), zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, cc.cache.RemoteURL(id, size))
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(cachePath)
}

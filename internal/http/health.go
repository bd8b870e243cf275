package http

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/database"
	"github.com/mrlokans/bookfinder/internal/views"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports on the database, the cover cache and the number of
// live search views. Only a failing database makes the service unhealthy; a
// broken cover cache degrades it, since covers then load from OpenLibrary.
type HealthController struct {
	db      *database.Database
	views   *views.Registry
	covers  *covers.Cache
	version string
}

func NewHealthController(db *database.Database, registry *views.Registry, cache *covers.Cache, version string) *HealthController {
	return &HealthController{
		db:      db,
		views:   registry,
		covers:  cache,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.covers == nil {
		checks["covers"] = "disabled"
	} else if _, err := os.Stat(h.covers.CacheDir()); err != nil {
		checks["covers"] = "error: " + err.Error()
		if status == "healthy" {
			status = "degraded"
		}
	} else {
		checks["covers"] = "ok"
	}

	if h.views != nil {
		checks["views"] = strconv.Itoa(h.views.Len())
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/database"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/views"
)

func setupHealthTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_health_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func getHealth(t *testing.T, controller *HealthController) (int, HealthResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w.Code, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("returns healthy when database is connected", func(t *testing.T) {
		db, cleanup := setupHealthTestDB(t)
		defer cleanup()

		registry := views.NewRegistry(4, time.Minute, func() *search.Orchestrator {
			return search.NewOrchestrator(search.Options{})
		})
		registry.Get("a")
		registry.Get("b")

		code, response := getHealth(t, NewHealthController(db, registry, nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Equal(t, "2", response.Checks["views"])
		assert.Equal(t, "disabled", response.Checks["covers"])
		assert.NotEmpty(t, response.Time)
	})

	t.Run("reports unconfigured database", func(t *testing.T) {
		code, response := getHealth(t, NewHealthController(nil, nil, nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "not configured", response.Checks["database"])
	})

	t.Run("returns unhealthy when database connection is closed", func(t *testing.T) {
		db, cleanup := setupHealthTestDB(t)
		defer cleanup()
		db.Close()

		code, response := getHealth(t, NewHealthController(db, nil, nil, "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "error")
	})

	t.Run("degrades when the cover cache directory is gone", func(t *testing.T) {
		db, cleanup := setupHealthTestDB(t)
		defer cleanup()

		dir := t.TempDir() + "/covers"
		cache, err := covers.NewCache(dir, openlibrary.URLs{}, "", nil)
		require.NoError(t, err)
		require.NoError(t, os.RemoveAll(dir))

		code, response := getHealth(t, NewHealthController(db, nil, cache, "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", response.Status)
		assert.Contains(t, response.Checks["covers"], "error")
	})
}

package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
	"github.com/mrlokans/bookfinder/internal/session"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = openlibrary.DefaultLimit
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))

	if cfg.Analytics != nil {
		router.Use(AnalyticsContextMiddleware(cfg.Analytics))
	}

	// Apply security headers to all responses
	router.Use(session.SecurityHeadersMiddleware(cfg.URLs.Base, cfg.URLs.Covers))

	// Sessions load before CSRF so the view id survives the request
	// replacement done by the CSRF handler
	router.Use(cfg.Sessions.LoadSave())
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	router.SetHTMLTemplate(loadTemplates())

	pages := &pageContext{
		views:     cfg.Views,
		sessions:  cfg.Sessions,
		favorites: cfg.Favorites,
		cover:     covers.URLFunc(cfg.CoverCache, cfg.URLs),
	}

	health := NewHealthController(cfg.Database, cfg.Views, cfg.CoverCache, cfg.Version)
	searchController := NewSearchController(pages)
	detailsController := NewDetailsController(pages, cfg.Details, logger)
	favoritesController := NewFavoritesController(pages, cfg.Settings, cfg.URLs, logger)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Search view
	router.GET("/", searchController.Home)
	router.POST("/search", searchController.Submit)
	router.POST("/search/filters", searchController.Filters)
	router.POST("/search/clear", searchController.Clear)
	router.POST("/search/retry", searchController.Retry)
	router.POST("/search/page/:dir", searchController.Page)

	// Book details
	router.GET("/books/details", detailsController.Show)
	router.GET("/books/subjects", detailsController.Subjects)
	router.POST("/books/close", detailsController.Close)
	router.POST("/books/open", detailsController.Open)

	// Favorites
	router.GET("/favorites", favoritesController.Page)
	router.GET("/favorites/export", favoritesController.Export)
	router.POST("/favorites/toggle", favoritesController.Toggle)
	router.GET("/api/favorites", favoritesController.ListAPI)
	router.POST("/api/favorites/toggle", favoritesController.ToggleAPI)

	// Stateless JSON API
	if cfg.Searcher != nil {
		api := NewAPIController(cfg.Searcher, cfg.Works, cfg.URLs, pageSize, logger)
		router.GET("/api/search", api.Search)
		if cfg.Works != nil {
			router.GET("/api/books/details", api.Work)
		}
	}

	// Cached covers
	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, logger)
		router.GET(covers.RoutePrefix+"/:id/:size", coversController.GetCover)
	}

	return router
}

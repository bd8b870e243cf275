package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/analytics"
	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/database"
	"github.com/mrlokans/bookfinder/internal/details"
	"github.com/mrlokans/bookfinder/internal/favorites"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
	"github.com/mrlokans/bookfinder/internal/session"
	"github.com/mrlokans/bookfinder/internal/settingsstore"
	"github.com/mrlokans/bookfinder/internal/views"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Favorites *favorites.Store
	Settings  *settingsstore.SettingsStore
	Details   *details.Service
	Logger    *zap.Logger

	// Search views, one per browser session
	Views    *views.Registry
	Sessions *session.Manager

	// Stateless search and work lookups for the JSON API
	Searcher openlibrary.Searcher
	Works    details.WorkFetcher
	URLs     openlibrary.URLs
	PageSize int

	// Cover caching (optional); without it cover URLs point upstream
	CoverCache *covers.Cache

	// Plausible page analytics (optional)
	Analytics *analytics.PlausibleStore

	// CSRF protection for form posts; disabled when empty
	CSRFSecret    []byte
	SecureCookies bool

	// Application info
	Version string
}

package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/analytics"
	"github.com/mrlokans/bookfinder/internal/session"
)

const analyticsContextKey = "analytics_template_data"

// AnalyticsTemplateData holds Plausible analytics info for templates.
type AnalyticsTemplateData struct {
	Enabled   bool
	Domain    string
	ScriptTag template.HTML
}

// AnalyticsContextMiddleware resolves the analytics settings once per request.
// Must run before session.SecurityHeadersMiddleware so the script origin
// makes it into the CSP.
func AnalyticsContextMiddleware(store *analytics.PlausibleStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := store.GetEffectiveConfig()

		c.Set(analyticsContextKey, AnalyticsTemplateData{
			Enabled:   cfg.Enabled,
			Domain:    cfg.Domain,
			ScriptTag: analytics.GenerateScriptTag(cfg),
		})
		if cfg.Enabled && cfg.ScriptURL != "" {
			c.Set(session.AnalyticsScriptURLContextKey, cfg.ScriptURL)
		}

		c.Next()
	}
}

func analyticsTemplateData(c *gin.Context) AnalyticsTemplateData {
	if data, exists := c.Get(analyticsContextKey); exists {
		if d, ok := data.(AnalyticsTemplateData); ok {
			return d
		}
	}
	return AnalyticsTemplateData{}
}

package session

import (
	"net/url"

	"github.com/gin-gonic/gin"
)

// AnalyticsScriptURLContextKey is the Gin context key for the analytics script URL.
// Set by the analytics middleware, read by SecurityHeadersMiddleware.
const AnalyticsScriptURLContextKey = "analytics_script_url"

// SecurityHeadersMiddleware adds security headers to all responses.
// Cover images may load from coversURL, and forms may redirect to pagesURL
// when a book page is opened.
func SecurityHeadersMiddleware(pagesURL, coversURL string) gin.HandlerFunc {
	imgSrc := "'self' data:"
	if origin := extractOrigin(coversURL); origin != "" {
		imgSrc += " " + origin
	}
	pagesOrigin := extractOrigin(pagesURL)

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		formAction := "'self'"
		if host := c.Request.Host; host != "" {
			formAction = "'self' https://" + host
		}
		if pagesOrigin != "" {
			formAction += " " + pagesOrigin
		}

		// 'unsafe-eval' is needed for HTMX hx-on attributes
		scriptSrc := "'self' 'unsafe-inline' 'unsafe-eval' https://unpkg.com"
		connectSrc := "'self'"
		if analyticsURL := c.GetString(AnalyticsScriptURLContextKey); analyticsURL != "" {
			if origin := extractOrigin(analyticsURL); origin != "" {
				scriptSrc += " " + origin
				connectSrc += " " + origin
			}
		}

		c.Header("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src "+scriptSrc+"; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src "+imgSrc+"; "+
				"connect-src "+connectSrc+"; "+
				"frame-ancestors 'none'; "+
				"form-action "+formAction)

		c.Header("Permissions-Policy", "camera=(), geolocation=(), microphone=(), payment=(), usb=()")

		c.Next()
	}
}

func extractOrigin(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	scheme := parsed.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + parsed.Host
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		OpenLibrary
		Search
		Session
		Covers
		Tasks
		Plausible
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	OpenLibrary struct {
		BaseURL     string
		CoversURL   string
		Timeout     time.Duration // Per-request bound, 15s by default
		UserAgent   string
		MinInterval time.Duration // Minimum gap between requests, 0 disables rate limiting
	}
	Search struct {
		PageSize int
		// ReportFailures lets the orchestrator see transport failures instead of
		// treating them as empty pages. Setting it to false restores the lossy behaviour.
		ReportFailures bool
		// SessionViews caps how many per-session search views stay in memory.
		SessionViews   int
		SessionViewTTL time.Duration
	}
	Session struct {
		Lifetime      time.Duration
		Secret        string
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	Covers struct {
		Dir           string
		PruneSchedule string // Cron format: "30 3 * * *" = daily at 03:30
		MaxAge        time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Plausible struct {
		Domain     string // Domain registered in Plausible, e.g. "books.example.com"; empty disables analytics
		ScriptURL  string
		Extensions string // Comma-separated script extensions, e.g. "outbound-links,file-downloads"
	}
	Log struct {
		Level  string // debug, info, warn, error
		Format string // json or console
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// OpenLibrary defaults
	v.SetDefault("openlibrary_base_url", DefaultOpenLibraryBaseURL)
	v.SetDefault("openlibrary_covers_url", DefaultOpenLibraryCoversURL)
	v.SetDefault("openlibrary_timeout", DefaultSearchTimeout.String())
	v.SetDefault("openlibrary_user_agent", "BookFinder/1.0 (https://github.com/mrlokans/bookfinder)")
	v.SetDefault("openlibrary_min_interval", "0s")

	// Search defaults
	v.SetDefault("search_page_size", DefaultPageSize)
	v.SetDefault("search_report_failures", true)
	v.SetDefault("search_session_views", 1024)
	v.SetDefault("search_session_view_ttl", "24h")

	// Session defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secret", "") // Auto-generated if empty
	v.SetDefault("secure_cookies", false)

	// Cover cache defaults
	v.SetDefault("covers_dir", "")                      // Next to the database if empty
	v.SetDefault("covers_prune_schedule", "30 3 * * *") // Daily at 03:30
	v.SetDefault("covers_max_age", "720h")              // 30 days

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Plausible Analytics defaults
	v.SetDefault("plausible_domain", "")
	v.SetDefault("plausible_script_url", "https://plausible.io/js/script.js")
	v.SetDefault("plausible_extensions", "")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		OpenLibrary: OpenLibrary{
			BaseURL:     v.GetString("OPENLIBRARY_BASE_URL"),
			CoversURL:   v.GetString("OPENLIBRARY_COVERS_URL"),
			Timeout:     v.GetDuration("OPENLIBRARY_TIMEOUT"),
			UserAgent:   v.GetString("OPENLIBRARY_USER_AGENT"),
			MinInterval: v.GetDuration("OPENLIBRARY_MIN_INTERVAL"),
		},
		Search: Search{
			PageSize:       v.GetInt("SEARCH_PAGE_SIZE"),
			ReportFailures: v.GetBool("SEARCH_REPORT_FAILURES"),
			SessionViews:   v.GetInt("SEARCH_SESSION_VIEWS"),
			SessionViewTTL: v.GetDuration("SEARCH_SESSION_VIEW_TTL"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			Secret:        v.GetString("SESSION_SECRET"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Covers: Covers{
			Dir:           v.GetString("COVERS_DIR"),
			PruneSchedule: v.GetString("COVERS_PRUNE_SCHEDULE"),
			MaxAge:        v.GetDuration("COVERS_MAX_AGE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Plausible: Plausible{
			Domain:     v.GetString("PLAUSIBLE_DOMAIN"),
			ScriptURL:  v.GetString("PLAUSIBLE_SCRIPT_URL"),
			Extensions: v.GetString("PLAUSIBLE_EXTENSIONS"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

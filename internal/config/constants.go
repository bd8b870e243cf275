package config

import "time"

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./bookfinder.db"
)

// OpenLibrary defaults
const (
	DefaultOpenLibraryBaseURL   = "https://openlibrary.org"
	DefaultOpenLibraryCoversURL = "https://covers.openlibrary.org"
	DefaultSearchTimeout        = 15 * time.Second
	DefaultPageSize             = 12
)

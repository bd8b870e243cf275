package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// SettingKeyFavorites holds the JSON list of favorite books, newest first.
	SettingKeyFavorites = "bf_favorites"

	// SettingKeyAppState holds the JSON settings object (lastVisited, ...).
	SettingKeyAppState = "bookFinderState"

	// Plausible overrides; when unset the environment configuration applies.
	SettingKeyPlausibleEnabled    = "plausible_enabled"
	SettingKeyPlausibleDomain     = "plausible_domain"
	SettingKeyPlausibleScriptURL  = "plausible_script_url"
	SettingKeyPlausibleExtensions = "plausible_extensions"
)

// SessionKeySearchState is the session-scoped slot for the search snapshot.
const SessionKeySearchState = "bookSearchState"

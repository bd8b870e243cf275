// Package analytics configures the optional Plausible page analytics snippet
// added to the web pages.
package analytics

import (
	"errors"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/storage"
)

const DefaultScriptURL = "https://plausible.io/js/script.js"

// Setting sources reported by GetSettingsInfo.
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

// PlausibleConfig holds the effective Plausible Analytics configuration
type PlausibleConfig struct {
	Enabled    bool
	Domain     string
	ScriptURL  string
	Extensions []string
}

// PlausibleSettingsInfo contains settings with source information for display
type PlausibleSettingsInfo struct {
	Enabled          bool     `json:"enabled"`
	EnabledSource    string   `json:"enabledSource"`
	Domain           string   `json:"domain"`
	DomainSource     string   `json:"domainSource"`
	ScriptURL        string   `json:"scriptUrl"`
	ScriptURLSource  string   `json:"scriptUrlSource"`
	Extensions       []string `json:"extensions"`
	ExtensionsSource string   `json:"extensionsSource"`
}

// PlausibleStore resolves settings with priority: database > environment > default
type PlausibleStore struct {
	kv        storage.KV
	envConfig config.Plausible
}

func NewPlausibleStore(kv storage.KV, envConfig config.Plausible) *PlausibleStore {
	return &PlausibleStore{
		kv:        kv,
		envConfig: envConfig,
	}
}

// GetEffectiveConfig returns the merged configuration with database taking priority
func (s *PlausibleStore) GetEffectiveConfig() *PlausibleConfig {
	info := s.GetSettingsInfo()

	return &PlausibleConfig{
		Enabled:    info.Enabled,
		Domain:     info.Domain,
		ScriptURL:  info.ScriptURL,
		Extensions: info.Extensions,
	}
}

func (s *PlausibleStore) GetSettingsInfo() PlausibleSettingsInfo {
	info := PlausibleSettingsInfo{}
	info.Enabled, info.EnabledSource = s.getEnabled()
	info.Domain, info.DomainSource = s.getDomain()
	info.ScriptURL, info.ScriptURLSource = s.getScriptURL()
	info.Extensions, info.ExtensionsSource = s.getExtensions()
	return info
}

func (s *PlausibleStore) stored(key string) (string, bool) {
	v, err := s.kv.Get(key)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (s *PlausibleStore) getEnabled() (bool, string) {
	if v, ok := s.stored(entities.SettingKeyPlausibleEnabled); ok {
		return v == "true", SourceDatabase
	}

	// Environment: enabled if domain is set
	if s.envConfig.Domain != "" {
		return true, SourceEnvironment
	}

	return false, SourceDefault
}

func (s *PlausibleStore) getDomain() (string, string) {
	if v, ok := s.stored(entities.SettingKeyPlausibleDomain); ok {
		return v, SourceDatabase
	}
	if s.envConfig.Domain != "" {
		return s.envConfig.Domain, SourceEnvironment
	}
	return "", SourceDefault
}

func (s *PlausibleStore) getScriptURL() (string, string) {
	if v, ok := s.stored(entities.SettingKeyPlausibleScriptURL); ok {
		return v, SourceDatabase
	}
	if s.envConfig.ScriptURL != "" {
		return s.envConfig.ScriptURL, SourceEnvironment
	}
	return DefaultScriptURL, SourceDefault
}

func (s *PlausibleStore) getExtensions() ([]string, string) {
	if v, ok := s.stored(entities.SettingKeyPlausibleExtensions); ok {
		return parseExtensions(v), SourceDatabase
	}
	if s.envConfig.Extensions != "" {
		return parseExtensions(s.envConfig.Extensions), SourceEnvironment
	}
	return []string{}, SourceDefault
}

func (s *PlausibleStore) SetEnabled(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return s.kv.Set(entities.SettingKeyPlausibleEnabled, value)
}

func (s *PlausibleStore) SetDomain(domain string) error {
	return s.kv.Set(entities.SettingKeyPlausibleDomain, strings.TrimSpace(domain))
}

func (s *PlausibleStore) SetScriptURL(url string) error {
	return s.kv.Set(entities.SettingKeyPlausibleScriptURL, strings.TrimSpace(url))
}

// SetExtensions stores the script extensions, rejecting unknown names.
func (s *PlausibleStore) SetExtensions(extensions []string) error {
	for _, ext := range extensions {
		if !IsValidExtension(ext) {
			return fmt.Errorf("unknown plausible extension %q", ext)
		}
	}
	return s.kv.Set(entities.SettingKeyPlausibleExtensions, strings.Join(extensions, ","))
}

// ClearSettings removes all stored overrides, reverting to env/defaults
func (s *PlausibleStore) ClearSettings() error {
	keys := []string{
		entities.SettingKeyPlausibleEnabled,
		entities.SettingKeyPlausibleDomain,
		entities.SettingKeyPlausibleScriptURL,
		entities.SettingKeyPlausibleExtensions,
	}

	var errs []error
	for _, key := range keys {
		if err := s.kv.Delete(key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildScriptURL constructs the Plausible script URL with extensions
func BuildScriptURL(baseURL string, extensions []string) string {
	if len(extensions) == 0 {
		return baseURL
	}

	// https://plausible.io/js/script.js -> https://plausible.io/js/script.outbound-links.js
	if base, found := strings.CutSuffix(baseURL, ".js"); found {
		return base + "." + strings.Join(extensions, ".") + ".js"
	}

	return baseURL
}

// GenerateScriptTag returns safe HTML for the Plausible script tag
func GenerateScriptTag(cfg *PlausibleConfig) template.HTML {
	if !cfg.Enabled || cfg.Domain == "" {
		return ""
	}

	scriptURL := BuildScriptURL(cfg.ScriptURL, cfg.Extensions)

	return template.HTML(`<script defer data-domain="` + template.HTMLEscapeString(cfg.Domain) + `" src="` + template.HTMLEscapeString(scriptURL) + `"></script>`)
}

func parseExtensions(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ValidExtensions lists the known Plausible script extensions
var ValidExtensions = []string{
	"outbound-links",
	"file-downloads",
	"tagged-events",
	"hash",
	"compat",
	"local",
	"manual",
	"pageview-props",
	"revenue",
}

func IsValidExtension(ext string) bool {
	return slices.Contains(ValidExtensions, ext)
}

package interfaces

// This file contains compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/details"
	"github.com/mrlokans/bookfinder/internal/favorites"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/session"
	"github.com/mrlokans/bookfinder/internal/settingsstore"
	"github.com/mrlokans/bookfinder/internal/storage"
	"github.com/mrlokans/bookfinder/internal/tasks"
)

// =============================================================================
// Storage
// =============================================================================

var _ storage.KV = (*storage.SettingsKV)(nil)
var _ storage.KV = (*storage.MemoryKV)(nil)

var _ search.SnapshotStore = (*session.Snapshots)(nil)
var _ search.SnapshotStore = (*search.MemorySnapshots)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ openlibrary.Searcher = (*openlibrary.Client)(nil)
var _ openlibrary.Searcher = openlibrary.SearcherFunc(nil)

var _ details.WorkFetcher = (*openlibrary.Client)(nil)

// =============================================================================
// Side Effects
// =============================================================================

var _ details.VisitRecorder = (*settingsstore.SettingsStore)(nil)

var _ favorites.CoverWarmer = (*tasks.CoverWarmer)(nil)

var _ tasks.CoverFetcher = (*covers.Cache)(nil)
var _ tasks.CoverPruner = (*covers.Cache)(nil)

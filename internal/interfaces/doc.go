// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage
//
//   - storage.KV: string key/value persistence behind every durable slot
//     (internal/storage/kv.go). Implemented by the settings table and by an
//     in-memory map for the terminal UI and tests.
//   - search.SnapshotStore: session-scoped search snapshot (internal/search/snapshot.go).
//     Implemented by the scs session and by an in-memory holder.
//
// ## External Services
//
//   - openlibrary.Searcher: one page of search results (internal/openlibrary/search.go).
//     openlibrary.Lossy wraps any Searcher to swallow failures.
//   - details.WorkFetcher: extended metadata of a work (internal/details/details.go).
//
// ## Side Effects
//
//   - details.VisitRecorder: remembers that a book page was opened.
//   - favorites.CoverWarmer: told about covers of newly added favorites.
//   - tasks.CoverFetcher and tasks.CoverPruner: what the background queues
//     need from the cover cache.
//
// # Adding a New Search Backend
//
// To search another catalogue (e.g., Google Books):
//
//  1. Implement openlibrary.Searcher, mapping the backend's documents to
//     entities.Book:
//
//     type GoogleBooksSearcher struct {
//     apiKey     string
//     httpClient *http.Client
//     }
//
//     func (s *GoogleBooksSearcher) Search(ctx context.Context, q openlibrary.Query) (openlibrary.Result, error)
//
//     var _ openlibrary.Searcher = (*GoogleBooksSearcher)(nil)
//
//  2. Hand it to search.NewOrchestrator in entrypoint/app.go.
//
// # Adding a New Durable Slot
//
//  1. Add the key to internal/entities/setting.go.
//  2. Wrap it with storage.NewSlot over the shared storage.KV.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces

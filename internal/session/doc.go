// Package session keeps per-browser state for the web front-end.
//
// Sessions are scs sessions stored in the application's SQLite database.
// Each session carries a view id, which selects the in-memory search view of
// that browser, and the search snapshot saved while a details page is open.
//
// The package also holds the HTTP middleware that depends on sessions:
// session load/save for gin, CSRF protection and security headers.
package session

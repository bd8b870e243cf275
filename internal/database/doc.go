// Package database provides the SQLite persistence layer for the application.
//
// The only table managed through gorm is "settings", a key/value store that holds
// the durable slots (favorites, application state). Session data lives in the same
// file in the "sessions" table owned by the session store.
//
//	db, err := database.NewDatabase("./bookfinder.db", logger)
//	err = db.SetSetting("bf_favorites", "[]")
//	setting, err := db.GetSetting("bf_favorites")
package database

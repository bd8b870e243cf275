package settingsstore

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/database"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/storage"
)

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	dbPath := "./test_settings_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestLastVisited(t *testing.T) {
	t.Run("absent by default", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		store := New(storage.NewSettingsKV(db), nil)

		_, ok := store.LastVisited()
		assert.False(t, ok)
		assert.Equal(t, AppState{}, store.State())
	})

	t.Run("records visit as RFC 3339", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		fixed := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
		store := New(storage.NewSettingsKV(db), nil)
		store.now = func() time.Time { return fixed }

		require.NoError(t, store.RecordVisit())

		setting, err := db.GetSetting(entities.SettingKeyAppState)
		require.NoError(t, err)
		assert.JSONEq(t, `{"lastVisited":"2024-03-09T14:30:00Z"}`, setting.Value)

		got, ok := store.LastVisited()
		require.True(t, ok)
		assert.True(t, fixed.Equal(got))
	})

	t.Run("corrupt value reads as absent", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, db.SetSetting(entities.SettingKeyAppState, "{not json"))

		store := New(storage.NewSettingsKV(db), nil)
		_, ok := store.LastVisited()
		assert.False(t, ok)

		require.NoError(t, store.RecordVisit())
		_, ok = store.LastVisited()
		assert.True(t, ok)
	})

	t.Run("unparseable timestamp reads as absent", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		require.NoError(t, kv.Set(entities.SettingKeyAppState, `{"lastVisited":"yesterday"}`))

		store := New(kv, nil)
		_, ok := store.LastVisited()
		assert.False(t, ok)
	})
}

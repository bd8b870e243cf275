package database

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_db_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := NewDatabase(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.Ping())
	assert.True(t, db.DB.Migrator().HasTable("settings"))
}

func TestSettingOperations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("SetSetting creates new setting", func(t *testing.T) {
		err := db.SetSetting("test_key", "test_value")
		require.NoError(t, err)

		setting, err := db.GetSetting("test_key")
		require.NoError(t, err)
		assert.Equal(t, "test_key", setting.Key)
		assert.Equal(t, "test_value", setting.Value)
	})

	t.Run("SetSetting replaces existing setting", func(t *testing.T) {
		require.NoError(t, db.SetSetting("update_key", "initial_value"))
		require.NoError(t, db.SetSetting("update_key", "updated_value"))

		setting, err := db.GetSetting("update_key")
		require.NoError(t, err)
		assert.Equal(t, "updated_value", setting.Value)

		var count int64
		db.DB.Table("settings").Where("key = ?", "update_key").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("GetSetting returns ErrSettingNotFound for nonexistent key", func(t *testing.T) {
		_, err := db.GetSetting("nonexistent_key")
		assert.ErrorIs(t, err, ErrSettingNotFound)
	})

	t.Run("DeleteSetting removes setting", func(t *testing.T) {
		require.NoError(t, db.SetSetting("delete_key", "to_delete"))
		require.NoError(t, db.DeleteSetting("delete_key"))

		_, err := db.GetSetting("delete_key")
		assert.ErrorIs(t, err, ErrSettingNotFound)
	})

	t.Run("DeleteSetting does not error for nonexistent key", func(t *testing.T) {
		assert.NoError(t, db.DeleteSetting("never_existed"))
	})
}

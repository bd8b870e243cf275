package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/database"
)

func setupSettingsKV(t *testing.T) (*SettingsKV, func()) {
	t.Helper()
	dbPath := "./test_storage_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewSettingsKV(db), cleanup
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func emptyList() []sample { return []sample{} }

func TestSlot_DefaultsOnMissing(t *testing.T) {
	slot := NewSlot(NewMemoryKV(), "samples", emptyList, nil)

	got := slot.Get()

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSlot_DefaultsOnCorrupt(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set("samples", "{not json"))

	slot := NewSlot(kv, "samples", emptyList, nil)

	assert.Empty(t, slot.Get())
}

func TestSlot_SetReplacesWholeValue(t *testing.T) {
	kv := NewMemoryKV()
	slot := NewSlot(kv, "samples", emptyList, nil)

	require.NoError(t, slot.Set([]sample{{Name: "a", Count: 1}, {Name: "b", Count: 2}}))
	require.NoError(t, slot.Set([]sample{{Name: "c", Count: 3}}))

	assert.Equal(t, []sample{{Name: "c", Count: 3}}, slot.Get())

	raw, err := kv.Get("samples")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"c","count":3}]`, raw)
}

func TestSlot_Clear(t *testing.T) {
	slot := NewSlot(NewMemoryKV(), "samples", emptyList, nil)
	require.NoError(t, slot.Set([]sample{{Name: "a"}}))

	require.NoError(t, slot.Clear())

	assert.Empty(t, slot.Get())
}

func TestSettingsKV(t *testing.T) {
	kv, cleanup := setupSettingsKV(t)
	defer cleanup()

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		_, err := kv.Get("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("slot round trips through the settings table", func(t *testing.T) {
		slot := NewSlot(kv, "samples", emptyList, nil)
		require.NoError(t, slot.Set([]sample{{Name: "persisted", Count: 7}}))

		reopened := NewSlot(kv, "samples", emptyList, nil)
		assert.Equal(t, []sample{{Name: "persisted", Count: 7}}, reopened.Get())
	})

	t.Run("delete then get returns default", func(t *testing.T) {
		slot := NewSlot(kv, "samples", emptyList, nil)
		require.NoError(t, slot.Set([]sample{{Name: "x"}}))
		require.NoError(t, slot.Clear())
		assert.Empty(t, slot.Get())
	})
}

package favorites

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/database"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/storage"
)

func setupTestStore(t *testing.T) (*Store, *database.Database, func()) {
	t.Helper()
	dbPath := "./test_favorites_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewStore(storage.NewSettingsKV(db), nil), db, cleanup
}

type recordingWarmer struct {
	ids []int
}

func (w *recordingWarmer) WarmCover(coverID int) {
	w.ids = append(w.ids, coverID)
}

func TestStore_ListDefaultsToEmpty(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	list := store.List()
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestStore_ListIgnoresCorruptSlot(t *testing.T) {
	store, db, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, db.SetSetting(entities.SettingKeyFavorites, "definitely not json"))

	assert.Empty(t, store.List())
}

func TestStore_Toggle(t *testing.T) {
	t.Run("adds newest first", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		added, err := store.Toggle(entities.Book{Key: "/works/OL1W", Title: "First"})
		require.NoError(t, err)
		assert.True(t, added)

		added, err = store.Toggle(entities.Book{Key: "/works/OL2W", Title: "Second"})
		require.NoError(t, err)
		assert.True(t, added)

		list := store.List()
		require.Len(t, list, 2)
		assert.Equal(t, "/works/OL2W", list[0].Key)
		assert.Equal(t, "/works/OL1W", list[1].Key)
	})

	t.Run("toggling twice restores membership", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		book := entities.Book{Key: "/works/OL1W", Title: "Dune"}
		other := entities.Book{Key: "/works/OL9W", Title: "Other"}
		_, err := store.Toggle(other)
		require.NoError(t, err)

		before := store.List()

		added, err := store.Toggle(book)
		require.NoError(t, err)
		assert.True(t, added)
		assert.True(t, store.Contains("/works/OL1W"))

		added, err = store.Toggle(book)
		require.NoError(t, err)
		assert.False(t, added)
		assert.False(t, store.Contains("/works/OL1W"))

		assert.Equal(t, before, store.List())
	})

	t.Run("never stores duplicate keys", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		book := entities.Book{Key: "/works/OL1W", Title: "Dune"}
		for i := 0; i < 5; i++ {
			_, err := store.Toggle(book)
			require.NoError(t, err)
		}

		seen := map[string]int{}
		for _, f := range store.List() {
			seen[f.Key]++
		}
		for key, n := range seen {
			assert.Equal(t, 1, n, "duplicate key %s", key)
		}
		assert.True(t, store.Contains("/works/OL1W"))
	})

	t.Run("falls back to title as identity", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		book := entities.Book{Title: "A Book Without Keys", AuthorNames: []string{"Anon"}}
		_, err := store.Toggle(book)
		require.NoError(t, err)

		fav, ok := store.Get("A Book Without Keys")
		require.True(t, ok)
		assert.Equal(t, "A Book Without Keys", fav.Title)
		assert.Equal(t, []string{entities.UnknownLanguage}, fav.Languages)
	})

	t.Run("uses edition key when canonical key is missing", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		_, err := store.Toggle(entities.Book{Title: "Edition", CoverEditionKey: "OL5M"})
		require.NoError(t, err)

		assert.True(t, store.Contains("/books/OL5M"))
	})

	t.Run("warms covers of new favorites only", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		warmer := &recordingWarmer{}
		store.SetCoverWarmer(warmer)

		book := entities.Book{Key: "/works/OL1W", Title: "Dune", CoverID: 77}
		_, _ = store.Toggle(book)
		_, _ = store.Toggle(book)
		_, _ = store.Toggle(entities.Book{Key: "/works/OL2W", Title: "No cover"})

		assert.Equal(t, []int{77}, warmer.ids)
	})
}

func TestStore_Replace(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Toggle(entities.Book{Key: "/works/OL1W", Title: "Old"})
	require.NoError(t, err)

	replacement := []entities.Favorite{
		entities.NewFavorite(entities.Book{Key: "/works/OL3W", Title: "New"}),
	}
	require.NoError(t, store.Replace(replacement))

	assert.Equal(t, replacement, store.List())
	assert.False(t, store.Contains("/works/OL1W"))
}

func TestStore_Keys(t *testing.T) {
	store := NewStore(storage.NewMemoryKV(), nil)
	_, _ = store.Toggle(entities.Book{Key: "/works/OL1W", Title: "A"})
	_, _ = store.Toggle(entities.Book{Key: "/works/OL2W", Title: "B"})

	assert.Equal(t, map[string]bool{"/works/OL1W": true, "/works/OL2W": true}, store.Keys())
}

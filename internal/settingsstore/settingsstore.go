package settingsstore

import (
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/storage"
)

// AppState is the JSON object kept under the bookFinderState key.
// Unknown fields written by other clients are dropped on the next write.
type AppState struct {
	LastVisited string `json:"lastVisited,omitempty"`
}

// SettingsStore reads and writes application level settings.
type SettingsStore struct {
	slot *storage.Slot[AppState]
	now  func() time.Time
}

func New(kv storage.KV, logger *zap.Logger) *SettingsStore {
	return &SettingsStore{
		slot: storage.NewSlot(kv, entities.SettingKeyAppState, func() AppState { return AppState{} }, logger),
		now:  time.Now,
	}
}

// State returns the stored settings object, or the zero value.
func (s *SettingsStore) State() AppState {
	return s.slot.Get()
}

// RecordVisit stores the current time as lastVisited in RFC 3339 form.
func (s *SettingsStore) RecordVisit() error {
	state := s.slot.Get()
	state.LastVisited = s.now().UTC().Format(time.RFC3339Nano)
	return s.slot.Set(state)
}

// LastVisited returns the time of the last visit to an OpenLibrary page.
// The second value is false when no visit was recorded or the stored value
// cannot be parsed.
func (s *SettingsStore) LastVisited() (time.Time, bool) {
	raw := s.slot.Get().LastVisited
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

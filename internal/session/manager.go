package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/entities"
)

// Session data keys
const (
	KeyViewID      = "view_id"
	KeySearchState = entities.SessionKeySearchState
)

// Manager wraps scs.SessionManager with application-specific methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a session manager storing sessions in sqlDB.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, cfg config.Session) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.Lifetime / 2

	sm.Cookie.Name = "bookfinder_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// ViewID returns the view id of the session, creating one on first use.
// The second value reports whether the id was just created.
func (m *Manager) ViewID(ctx context.Context) (string, bool) {
	if id := m.GetString(ctx, KeyViewID); id != "" {
		return id, false
	}
	id := uuid.NewString()
	m.Put(ctx, KeyViewID, id)
	return id, true
}

// SearchSnapshots returns a snapshot store over this manager's sessions.
func (m *Manager) SearchSnapshots() *Snapshots {
	return &Snapshots{sm: m}
}

// Snapshots stores the search snapshot in the session bound to the context.
// Values are JSON strings so the session payload matches the browser slot.
type Snapshots struct {
	sm *Manager
}

func (s *Snapshots) Load(ctx context.Context) (entities.SearchState, bool) {
	raw := s.sm.GetString(ctx, KeySearchState)
	if raw == "" {
		return entities.SearchState{}, false
	}
	var state entities.SearchState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return entities.SearchState{}, false
	}
	return state, true
}

func (s *Snapshots) Save(ctx context.Context, state entities.SearchState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.sm.Put(ctx, KeySearchState, string(data))
	return nil
}

func (s *Snapshots) Clear(ctx context.Context) error {
	s.sm.Remove(ctx, KeySearchState)
	return nil
}

// GenerateSecret creates a random 32-byte secret, hex encoded.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeSecret turns a configured secret into a 32-byte key. A 64 character
// hex string is decoded; any other value is hashed.
func DecodeSecret(secret string) []byte {
	if b, err := hex.DecodeString(secret); err == nil && len(b) == 32 {
		return b
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

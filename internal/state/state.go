package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const saveDebounce = 500 * time.Millisecond

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   map[string]LastSeen
}

// Open opens or creates the state database at path.
func Open(path string) (*Manager, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending state
	for player, seen := range pending {
		_ = saveLastSeen(m.db, player, seen)
	}

	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// GetLastSeen returns the last song recorded for player, or nil.
func (m *Manager) GetLastSeen(player string) (*LastSeen, error) {
	m.saveMu.Lock()
	if seen, ok := m.pending[player]; ok {
		m.saveMu.Unlock()
		return &seen, nil
	}
	m.saveMu.Unlock()
	return getLastSeen(m.db, player)
}

// SaveLastSeen records seen for player. Writes are debounced; bursts of
// updates collapse into one write per player.
func (m *Manager) SaveLastSeen(player string, seen LastSeen) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if m.pending == nil {
		m.pending = make(map[string]LastSeen)
	}
	m.pending[player] = seen

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		for player, seen := range pending {
			_ = saveLastSeen(m.db, player, seen)
		}
	})
}

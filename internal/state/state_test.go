package state

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/llehouerou/mpdlive/internal/status"
)

// setupTestDB creates an in-memory SQLite database with the schema initialized.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	// Each pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to init schema: %v", err)
	}

	return db
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := initSchema(db); err != nil {
		t.Fatalf("second initSchema failed: %v", err)
	}

	var version int
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestGetCurve_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	m := &Manager{db: db}

	curve, ok, err := m.GetCurve("living-room")
	if err != nil {
		t.Fatalf("GetCurve failed: %v", err)
	}
	if ok || curve != 0 {
		t.Errorf("GetCurve() = %v, %v; want 0, false", curve, ok)
	}
}

func TestSetCurve_RoundTripAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	m := &Manager{db: db}

	if err := m.SetCurve("living-room", 0.3); err != nil {
		t.Fatalf("SetCurve failed: %v", err)
	}
	if err := m.SetCurve("kitchen", 0.7); err != nil {
		t.Fatalf("SetCurve failed: %v", err)
	}
	if err := m.SetCurve("living-room", 0.4); err != nil {
		t.Fatalf("SetCurve update failed: %v", err)
	}

	tests := []struct {
		player string
		want   status.Curve
	}{
		{"living-room", 0.4},
		{"kitchen", 0.7},
	}
	for _, tt := range tests {
		curve, ok, err := m.GetCurve(tt.player)
		if err != nil || !ok {
			t.Fatalf("GetCurve(%q) = %v, %v, %v", tt.player, curve, ok, err)
		}
		if curve != tt.want {
			t.Errorf("GetCurve(%q) = %v, want %v", tt.player, curve, tt.want)
		}
	}
}

func TestSetCurve_RejectsOutOfRange(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	m := &Manager{db: db}

	for _, c := range []status.Curve{0, 1, -0.5, 1.5} {
		err := m.SetCurve("p", c)
		if !errors.Is(err, ErrInvalidCurve) {
			t.Errorf("SetCurve(%v) error = %v, want ErrInvalidCurve", c, err)
		}
	}
	if _, ok, _ := m.GetCurve("p"); ok {
		t.Error("invalid curve must not be stored")
	}
}

func TestClearCurve(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	m := &Manager{db: db}

	_ = m.SetCurve("p", 0.5)

	removed, err := m.ClearCurve("p")
	if err != nil || !removed {
		t.Fatalf("ClearCurve() = %v, %v; want true, nil", removed, err)
	}
	removed, err = m.ClearCurve("p")
	if err != nil || removed {
		t.Errorf("second ClearCurve() = %v, %v; want false, nil", removed, err)
	}
	if _, ok, _ := m.GetCurve("p"); ok {
		t.Error("curve still present after ClearCurve")
	}
}

func TestLastSeen_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seen, err := getLastSeen(db, "p")
	if err != nil {
		t.Fatalf("getLastSeen failed: %v", err)
	}
	if seen != nil {
		t.Errorf("expected nil on empty db, got %+v", seen)
	}
}

func TestLastSeen_SaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	at := time.Unix(1700000000, 0)
	want := LastSeen{File: "a/b.flac", Title: "Song", Artist: "Band", At: at}
	if err := saveLastSeen(db, "p", want); err != nil {
		t.Fatalf("saveLastSeen failed: %v", err)
	}

	got, err := getLastSeen(db, "p")
	if err != nil {
		t.Fatalf("getLastSeen failed: %v", err)
	}
	if got == nil || got.File != want.File || got.Title != want.Title ||
		got.Artist != want.Artist || got.Album != "" || !got.At.Equal(at) {
		t.Errorf("getLastSeen() = %+v, want %+v", got, want)
	}

	// Update replaces the row.
	want.File = "c.flac"
	want.Title = ""
	if err := saveLastSeen(db, "p", want); err != nil {
		t.Fatalf("saveLastSeen update failed: %v", err)
	}
	got, _ = getLastSeen(db, "p")
	if got.File != "c.flac" || got.Title != "" {
		t.Errorf("after update = %+v", got)
	}
}

func TestManager_SaveLastSeenVisibleBeforeFlush(t *testing.T) {
	db := setupTestDB(t)
	m := &Manager{db: db}
	defer m.Close()

	m.SaveLastSeen("p", LastSeen{File: "x.flac", At: time.Unix(1, 0)})

	got, err := m.GetLastSeen("p")
	if err != nil {
		t.Fatalf("GetLastSeen failed: %v", err)
	}
	if got == nil || got.File != "x.flac" {
		t.Errorf("GetLastSeen() = %+v, want pending value", got)
	}
}

func TestManager_CloseFlushesPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	m.SaveLastSeen("p", LastSeen{File: "first.flac", At: time.Unix(1, 0)})
	m.SaveLastSeen("p", LastSeen{File: "second.flac", At: time.Unix(2, 0)})
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	got, err := m.GetLastSeen("p")
	if err != nil {
		t.Fatalf("GetLastSeen failed: %v", err)
	}
	if got == nil || got.File != "second.flac" {
		t.Errorf("GetLastSeen() = %+v, want second.flac", got)
	}
}

func TestLastSeenFrom(t *testing.T) {
	at := time.Unix(5, 0)

	if _, ok := LastSeenFrom(status.Snapshot{}, at); ok {
		t.Error("empty snapshot must not produce a record")
	}

	var s status.Snapshot
	s.Song = status.Song{File: "f.flac", Title: "T", Artist: "A", Album: "B"}
	got, ok := LastSeenFrom(s, at)
	if !ok {
		t.Fatal("expected a record")
	}
	want := LastSeen{File: "f.flac", Title: "T", Artist: "A", Album: "B", At: at}
	if got != want {
		t.Errorf("LastSeenFrom() = %+v, want %+v", got, want)
	}
}

func TestManager_DB(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}
	if m.DB() != db {
		t.Error("DB() should return the underlying database")
	}
}

func TestMock(t *testing.T) {
	m := NewMock()

	if err := m.SetCurve("p", 2); !errors.Is(err, ErrInvalidCurve) {
		t.Errorf("SetCurve(2) error = %v", err)
	}
	_ = m.SetCurve("p", 0.5)
	if c, ok, _ := m.GetCurve("p"); !ok || c != 0.5 {
		t.Errorf("GetCurve() = %v, %v", c, ok)
	}
	if removed, _ := m.ClearCurve("p"); !removed {
		t.Error("ClearCurve should report removal")
	}
	_ = m.Close()
	if !m.Closed() {
		t.Error("Closed() = false after Close")
	}
}

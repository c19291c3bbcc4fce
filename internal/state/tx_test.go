package state

import (
	"database/sql"
	"errors"
	"testing"
	"time"
)

func countCurves(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM player_curves`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestWithTx_Commit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := withTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO player_curves (player, curve, updated_at) VALUES ('a', 0.5, 0)`)
		return err
	})
	if err != nil {
		t.Fatalf("withTx failed: %v", err)
	}
	if n := countCurves(t, db); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	abort := errors.New("abort")
	err := withTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO player_curves (player, curve, updated_at) VALUES ('a', 0.5, 0)`); err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO player_curves (player, curve, updated_at) VALUES ('b', 0.5, 0)`); err != nil {
			return err
		}
		return abort
	})

	if !errors.Is(err, abort) {
		t.Fatalf("withTx should return the error: got %v", err)
	}
	if n := countCurves(t, db); n != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", n)
	}
}

func TestWithTx_ConstraintViolationRollsBack(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := withTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO player_curves (player, curve, updated_at) VALUES ('a', 0.5, 0)`); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO player_curves (player, curve, updated_at) VALUES ('b', 2.0, 0)`)
		return err
	})

	if err == nil {
		t.Fatal("expected CHECK constraint error")
	}
	if n := countCurves(t, db); n != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", n)
	}
}

func TestForgetPlayer(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	m := &Manager{db: db}

	_ = m.SetCurve("p", 0.5)
	_ = m.SetCurve("other", 0.5)
	_ = saveLastSeen(db, "p", LastSeen{File: "f", At: time.Unix(1, 0)})

	if err := m.ForgetPlayer("p"); err != nil {
		t.Fatalf("ForgetPlayer failed: %v", err)
	}

	if _, ok, _ := m.GetCurve("p"); ok {
		t.Error("curve survived ForgetPlayer")
	}
	if seen, _ := getLastSeen(db, "p"); seen != nil {
		t.Error("last seen survived ForgetPlayer")
	}
	if _, ok, _ := m.GetCurve("other"); !ok {
		t.Error("other player's curve was removed")
	}
}

func TestNullStringHelpers(t *testing.T) {
	if v := nullString(""); v.Valid {
		t.Error("empty string should be NULL")
	}
	if v := nullString("x"); !v.Valid || v.String != "x" {
		t.Errorf("nullString(x) = %+v", v)
	}
	if got := nullStringValue(sql.NullString{String: "ignored"}); got != "" {
		t.Errorf("invalid NullString = %q, want empty", got)
	}
	if got := nullStringValue(sql.NullString{String: "v", Valid: true}); got != "v" {
		t.Errorf("valid NullString = %q, want v", got)
	}
}

package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/llehouerou/mpdlive/internal/status"
)

// ErrInvalidCurve is returned when storing a factor outside (0, 1).
var ErrInvalidCurve = errors.New("curve factor must be between 0 and 1 exclusive")

// GetCurve returns the stored curve for player. ok is false when none is
// stored.
func (m *Manager) GetCurve(player string) (curve status.Curve, ok bool, err error) {
	var v float64
	err = m.db.QueryRow(`SELECT curve FROM player_curves WHERE player = ?`, player).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return status.Curve(v), true, nil
}

// SetCurve stores curve for player, replacing any previous value.
func (m *Manager) SetCurve(player string, curve status.Curve) error {
	if !curve.Enabled() {
		return fmt.Errorf("%w: %g", ErrInvalidCurve, float64(curve))
	}
	_, err := m.db.Exec(`
		INSERT INTO player_curves (player, curve, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(player) DO UPDATE SET
			curve = excluded.curve,
			updated_at = excluded.updated_at
	`, player, float64(curve), time.Now().Unix())
	return err
}

// ClearCurve removes player's stored curve. It reports whether one existed.
func (m *Manager) ClearCurve(player string) (bool, error) {
	res, err := m.db.Exec(`DELETE FROM player_curves WHERE player = ?`, player)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ForgetPlayer removes everything stored for player.
func (m *Manager) ForgetPlayer(player string) error {
	return withTx(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM player_curves WHERE player = ?`, player); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM last_seen WHERE player = ?`, player)
		return err
	})
}

// internal/state/mock.go
package state

import (
	"database/sql"
	"fmt"

	"github.com/llehouerou/mpdlive/internal/status"
)

// Mock is a test double for Manager.
type Mock struct {
	curves   map[string]status.Curve
	lastSeen map[string]LastSeen
	closed   bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{
		curves:   make(map[string]status.Curve),
		lastSeen: make(map[string]LastSeen),
	}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) GetCurve(player string) (status.Curve, bool, error) {
	c, ok := m.curves[player]
	return c, ok, nil
}

func (m *Mock) SetCurve(player string, curve status.Curve) error {
	if !curve.Enabled() {
		return fmt.Errorf("%w: %g", ErrInvalidCurve, float64(curve))
	}
	m.curves[player] = curve
	return nil
}

func (m *Mock) ClearCurve(player string) (bool, error) {
	_, ok := m.curves[player]
	delete(m.curves, player)
	return ok, nil
}

func (m *Mock) ForgetPlayer(player string) error {
	delete(m.curves, player)
	delete(m.lastSeen, player)
	return nil
}

func (m *Mock) GetLastSeen(player string) (*LastSeen, error) {
	seen, ok := m.lastSeen[player]
	if !ok {
		return nil, nil //nolint:nilnil // mirrors Manager
	}
	return &seen, nil
}

func (m *Mock) SaveLastSeen(player string, seen LastSeen) {
	m.lastSeen[player] = seen
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

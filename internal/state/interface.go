// internal/state/interface.go
package state

import (
	"database/sql"

	"github.com/llehouerou/mpdlive/internal/status"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	GetCurve(player string) (status.Curve, bool, error)
	SetCurve(player string, curve status.Curve) error
	ClearCurve(player string) (bool, error)
	ForgetPlayer(player string) error
	GetLastSeen(player string) (*LastSeen, error)
	SaveLastSeen(player string, seen LastSeen)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)

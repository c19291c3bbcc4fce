// Package mpris mirrors a remote player on the session bus. The mirror is
// read-only: controls are refused with ErrReadOnly.
package mpris

import (
	"errors"
	"strings"

	"github.com/llehouerou/mpdlive/internal/status"
)

// ErrReadOnly is returned by every MPRIS control method.
var ErrReadOnly = errors.New("mpris: player is read-only")

// Source supplies the snapshot to mirror. *session.Session satisfies it.
type Source interface {
	Latest() (status.Snapshot, bool)
}

// Options configures the adapter.
type Options struct {
	// Name is appended to the bus name and shown as the identity.
	Name string
	// MusicDir is the daemon's music directory when it is reachable
	// locally; album art is looked up there.
	MusicDir string
}

func (o Options) identity() string {
	if o.Name == "" {
		return "mpdlive"
	}
	return "mpdlive (" + o.Name + ")"
}

// busName returns the player suffix of org.mpris.MediaPlayer2.<name>.
func (o Options) busName() string {
	if o.Name == "" {
		return "mpdlive"
	}
	return "mpdlive." + sanitizeBusElement(o.Name)
}

// sanitizeBusElement keeps only characters valid in a bus name element.
// Elements must not start with a digit.
func sanitizeBusElement(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

//go:build linux

package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/server"
)

// Adapter publishes a daemon's live status on the session bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a read-only MPRIS adapter over src.
func New(src Source, opts Options) (*Adapter, error) {
	root := &rootAdapter{identity: opts.identity()}
	player := &playerAdapter{src: src, musicDir: opts.MusicDir}

	a := &Adapter{server: server.NewServer(opts.busName(), root, player)}

	// Start the server in background
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct {
	identity string
}

func (r *rootAdapter) Raise() error {
	return ErrReadOnly
}

func (r *rootAdapter) Quit() error {
	return ErrReadOnly
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return r.identity, nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{}, nil
}

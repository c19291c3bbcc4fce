// Package mpd defines the protocol calls the synchronization engine makes
// against a music player daemon, and implements them over gompd.
package mpd

import (
	"context"
	"net"
	"strconv"
	"time"
)

// Attrs is one protocol reply record (key/value pairs).
type Attrs map[string]string

// Category is a change class the idle wait can be filtered to.
type Category string

const (
	CategoryPlayer   Category = "player"
	CategoryMixer    Category = "mixer"
	CategoryPlaylist Category = "playlist"
	CategoryOptions  Category = "options"
	CategoryOutput   Category = "output"
)

// StatusCategories are the categories that affect a status snapshot.
var StatusCategories = []Category{
	CategoryPlayer,
	CategoryMixer,
	CategoryPlaylist,
	CategoryOptions,
	CategoryOutput,
}

// DefaultPort is the daemon's standard TCP port.
const DefaultPort = 6600

// Endpoint identifies one daemon and the credentials used against it.
type Endpoint struct {
	Host        string
	Port        int
	Password    string
	DialTimeout time.Duration
}

// Address returns host:port.
func (e Endpoint) Address() string {
	port := e.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(e.Host, strconv.Itoa(port))
}

// Replies groups the three records a status snapshot is built from.
type Replies struct {
	Status  Attrs
	Song    Attrs
	Outputs []Attrs
}

// Batch collects mutating commands sent as one command list.
type Batch interface {
	Play(pos int)
	Pause(pause bool)
	Next()
	Previous()
	Stop()
	SetVolume(volume int)
	Clear()
	Add(uri string)
	Delete(start, end int)
}

// Conn is an open session with the daemon.
//
// Calls are sequential: while Wait is outstanding the only call allowed on
// the same Conn is CancelWait (or Close). Close may be called concurrently
// with any in-flight call and makes it fail.
type Conn interface {
	Authenticate(password string) error
	Status() (Attrs, error)
	CurrentSong() (Attrs, error)
	Outputs() ([]Attrs, error)
	// Fetch returns status and current song from one command list, plus
	// the output list.
	Fetch() (Replies, error)
	// Wait blocks until the daemon reports a change in one of categories.
	Wait(categories ...Category) ([]Category, error)
	// CancelWait interrupts an outstanding Wait without closing the Conn.
	// If no Wait is outstanding, the next Wait returns ErrWaitCancelled.
	// A Wait cut short by Close fails with ErrClosed instead.
	CancelWait() error
	Batch(fn func(Batch)) error
	Close() error
}

// Dialer opens connections to an endpoint.
type Dialer interface {
	Dial(ctx context.Context, ep Endpoint) (Conn, error)
}

// Package status normalizes daemon replies into immutable player snapshots.
package status

import (
	"path"
	"slices"
	"strings"
	"time"
)

// PlayState is the daemon's play/pause/stop mode.
type PlayState int

const (
	Stopped PlayState = iota
	Playing
	Paused
)

// String returns the state name.
func (s PlayState) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// RepeatMode combines the daemon's repeat and single flags.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	// RepeatAlbum is a client-side distinction. The daemon cannot store it,
	// so it is sent as RepeatAll and always reads back as RepeatAll.
	RepeatAlbum
	RepeatSingle
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatAlbum:
		return "Album"
	case RepeatSingle:
		return "Single"
	default:
		return "Unknown"
	}
}

// Flags returns the repeat and single flag values that select m.
func (m RepeatMode) Flags() (repeat, single bool) {
	switch m {
	case RepeatAll, RepeatAlbum:
		return true, false
	case RepeatSingle:
		return true, true
	default:
		return false, false
	}
}

// repeatFromFlags maps the two wire flags to a repeat mode.
func repeatFromFlags(repeat, single bool) RepeatMode {
	switch {
	case !repeat:
		return RepeatOff
	case single:
		return RepeatSingle
	default:
		return RepeatAll
	}
}

// Song is the current track's metadata.
type Song struct {
	File        string
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Date        string
	Track       string
	Disc        string
	Duration    time.Duration
	Pos         int
	ID          int
}

// IsZero reports whether no song is loaded.
func (s Song) IsZero() bool {
	return s == Song{}
}

// DisplayTitle returns the title tag, or the file's base name for
// untagged files and streams.
func (s Song) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return path.Base(s.File)
}

// TrackNumber returns the leading number of the track tag ("3/12" is 3),
// or 0.
func (s Song) TrackNumber() int {
	return leadingInt(s.Track)
}

func leadingInt(v string) int {
	n := 0
	for _, r := range strings.TrimSpace(v) {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Quality describes the audio format being played.
type Quality struct {
	SampleRate int    // Hz; 0 when unknown
	Encoding   string // "16bit", "24bit", "FLOAT", "DSD", "DSD64", ...
	Channels   string // "Mono", "Stereo" or a count
	Bitrate    int    // kbit/s
}

// Output is one audio sink.
type Output struct {
	ID      int
	Name    string
	Plugin  string
	Enabled bool
}

// Player is the comparable part of a snapshot.
type Player struct {
	State   PlayState
	Random  bool
	Consume bool
	Repeat  RepeatMode

	// Volume is perceptual, 0.0-1.0. When VolumeEnabled is false the
	// daemon has no usable mixer and Volume is a 0.5 placeholder.
	Volume        float64
	VolumeEnabled bool

	Elapsed   time.Duration
	Duration  time.Duration
	Crossfade time.Duration

	QueueLength  int
	QueueVersion int
	QueueIndex   int // -1 when nothing is selected
	NextIndex    int // -1 when there is no next song

	Song    Song
	Quality Quality

	UpdatingDB bool
	Error      string
}

// Snapshot is the player state at one instant. Values are never mutated
// in place; derive a new one instead. Outputs is a slice, so a plain copy
// shares it: use Clone before changing it.
type Snapshot struct {
	Player
	Outputs []Output
}

// Clone returns a copy of s that shares no memory with it.
func (s Snapshot) Clone() Snapshot {
	s.Outputs = slices.Clone(s.Outputs)
	return s
}

// Equal reports whether every field of s and o is equal.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Player == o.Player && slices.Equal(s.Outputs, o.Outputs)
}

// WithElapsed returns a copy of s with a different elapsed time.
func (s Snapshot) WithElapsed(elapsed time.Duration) Snapshot {
	s = s.Clone()
	s.Elapsed = elapsed
	return s
}

// IsPlaying reports whether the daemon is playing.
func (s Snapshot) IsPlaying() bool {
	return s.State == Playing
}

// SameSong reports whether s and o have the same song loaded.
func (s Snapshot) SameSong(o Snapshot) bool {
	return s.Song.File == o.Song.File && s.Song.ID == o.Song.ID
}

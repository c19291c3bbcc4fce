package status

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/mpdlive/internal/mpd"
	"github.com/llehouerou/mpdlive/internal/pool"
)

// Builder fetches and maps snapshots.
type Builder struct {
	pool  *pool.Pool
	curve Curve
}

// NewBuilder creates a builder that checks connections out of p and
// corrects volumes with curve.
func NewBuilder(p *pool.Pool, curve Curve) *Builder {
	return &Builder{pool: p, curve: curve}
}

// Curve returns the configured volume curve.
func (b *Builder) Curve() Curve {
	return b.curve
}

// Build checks out a high-priority connection, fetches a snapshot and
// releases the connection.
func (b *Builder) Build(ctx context.Context) (Snapshot, error) {
	conn, err := b.pool.Checkout(ctx, pool.High)
	if err != nil {
		return Snapshot{}, err
	}
	defer b.pool.Release(conn) //nolint:errcheck // close errors do not affect the snapshot

	return b.BuildOn(conn)
}

// BuildOn fetches a snapshot on a connection the caller owns.
func (b *Builder) BuildOn(conn mpd.Conn) (Snapshot, error) {
	replies, err := conn.Fetch()
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch status: %w", err)
	}
	return FromReplies(replies, b.curve), nil
}

// FromReplies maps raw replies to a snapshot.
func FromReplies(r mpd.Replies, curve Curve) Snapshot {
	st := r.Status

	p := Player{
		State:        playState(st["state"]),
		Random:       flag(st["random"]),
		Consume:      flag(st["consume"]),
		Repeat:       repeatFromFlags(flag(st["repeat"]), flag(st["single"])),
		Elapsed:      elapsed(st),
		Duration:     duration(st),
		Crossfade:    seconds(st["xfade"]),
		QueueLength:  atoi(st["playlistlength"], 0),
		QueueVersion: atoi(st["playlist"], 0),
		QueueIndex:   atoi(st["song"], -1),
		NextIndex:    atoi(st["nextsong"], -1),
		Song:         song(r.Song),
		Quality:      decodeAudioFormat(st["audio"]),
		UpdatingDB:   st["updating_db"] != "",
		Error:        st["error"],
	}
	p.Quality.Bitrate = atoi(st["bitrate"], 0)
	p.Volume, p.VolumeEnabled = volume(st["volume"], curve)

	if p.Duration == 0 {
		p.Duration = p.Song.Duration
	}

	return Snapshot{Player: p, Outputs: outputs(r.Outputs)}
}

func volume(raw string, curve Curve) (float64, bool) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return unsupportedVolume, false
	}
	return curve.FromPlayer(float64(v) / 100), true
}

func playState(s string) PlayState {
	switch s {
	case "play":
		return Playing
	case "pause":
		return Paused
	default:
		return Stopped
	}
}

// flag parses boolean status fields. "oneshot" counts as set.
func flag(s string) bool {
	return s != "" && s != "0"
}

// elapsed prefers the sub-second "elapsed" field over the legacy
// "time" field ("elapsed:total" in whole seconds).
func elapsed(st mpd.Attrs) time.Duration {
	if v, ok := st["elapsed"]; ok {
		return seconds(v)
	}
	if cur, _, ok := strings.Cut(st["time"], ":"); ok {
		return seconds(cur)
	}
	return 0
}

func duration(st mpd.Attrs) time.Duration {
	if v, ok := st["duration"]; ok {
		return seconds(v)
	}
	if _, total, ok := strings.Cut(st["time"], ":"); ok {
		return seconds(total)
	}
	return 0
}

func seconds(s string) time.Duration {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second)).Round(time.Millisecond)
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func song(a mpd.Attrs) Song {
	if len(a) == 0 {
		return Song{}
	}
	s := Song{
		File:        a["file"],
		Title:       a["Title"],
		Artist:      a["Artist"],
		AlbumArtist: a["AlbumArtist"],
		Album:       a["Album"],
		Genre:       a["Genre"],
		Date:        a["Date"],
		Track:       a["Track"],
		Disc:        a["Disc"],
		Pos:         atoi(a["Pos"], -1),
		ID:          atoi(a["Id"], -1),
	}
	if d, ok := a["duration"]; ok {
		s.Duration = seconds(d)
	} else {
		s.Duration = seconds(a["Time"])
	}
	return s
}

func outputs(list []mpd.Attrs) []Output {
	if len(list) == 0 {
		return nil
	}
	out := make([]Output, 0, len(list))
	for _, a := range list {
		out = append(out, Output{
			ID:      atoi(a["outputid"], -1),
			Name:    a["outputname"],
			Plugin:  a["plugin"],
			Enabled: flag(a["outputenabled"]),
		})
	}
	return out
}

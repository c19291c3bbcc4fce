//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/mpdlive/internal/cover"
	"github.com/llehouerou/mpdlive/internal/status"
)

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter over the
// latest snapshot. Every control is rejected.
type playerAdapter struct {
	src      Source
	musicDir string
}

func (p *playerAdapter) snapshot() status.Snapshot {
	s, _ := p.src.Latest()
	return s
}

func (p *playerAdapter) Next() error                                      { return ErrReadOnly }
func (p *playerAdapter) Previous() error                                  { return ErrReadOnly }
func (p *playerAdapter) Pause() error                                     { return ErrReadOnly }
func (p *playerAdapter) PlayPause() error                                 { return ErrReadOnly }
func (p *playerAdapter) Stop() error                                      { return ErrReadOnly }
func (p *playerAdapter) Play() error                                      { return ErrReadOnly }
func (p *playerAdapter) Seek(_ types.Microseconds) error                  { return ErrReadOnly }
func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error { return ErrReadOnly }
func (p *playerAdapter) SetRate(_ float64) error                          { return ErrReadOnly }
func (p *playerAdapter) SetVolume(_ float64) error                        { return ErrReadOnly }

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return ErrReadOnly
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.snapshot().State), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.snapshot().Song, p.musicDir), nil
}

func (p *playerAdapter) Volume() (float64, error) {
	s := p.snapshot()
	if !s.VolumeEnabled {
		return 0, nil
	}
	return s.Volume, nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.snapshot().Elapsed.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error)     { return false, nil }
func (p *playerAdapter) CanGoPrevious() (bool, error) { return false, nil }
func (p *playerAdapter) CanPlay() (bool, error)       { return false, nil }
func (p *playerAdapter) CanPause() (bool, error)      { return false, nil }
func (p *playerAdapter) CanSeek() (bool, error)       { return false, nil }
func (p *playerAdapter) CanControl() (bool, error)    { return false, nil }

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	return loopStatus(p.snapshot().Repeat), nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(_ types.LoopStatus) error {
	return ErrReadOnly
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.snapshot().Random, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(_ bool) error {
	return ErrReadOnly
}

func playbackStatus(s status.PlayState) types.PlaybackStatus {
	switch s {
	case status.Playing:
		return types.PlaybackStatusPlaying
	case status.Paused:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

func loopStatus(m status.RepeatMode) types.LoopStatus {
	switch m {
	case status.RepeatSingle:
		return types.LoopStatusTrack
	case status.RepeatAll, status.RepeatAlbum:
		return types.LoopStatusPlaylist
	default:
		return types.LoopStatusNone
	}
}

func metadata(song status.Song, musicDir string) types.Metadata {
	if song.IsZero() {
		return types.Metadata{}
	}

	meta := types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(song.File)),
		Length:      types.Microseconds(song.Duration.Microseconds()),
		Title:       song.DisplayTitle(),
		Album:       song.Album,
		TrackNumber: song.TrackNumber(),
	}
	if song.Artist != "" {
		meta.Artist = []string{song.Artist}
	}

	meta.ArtUrl = cover.URL(musicDir, song.File)

	return meta
}

func formatTrackID(file string) string {
	h := fnv.New64a()
	h.Write([]byte(file))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}

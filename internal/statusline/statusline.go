// Package statusline renders a snapshot as one line of text.
package statusline

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/mpdlive/internal/icons"
	"github.com/llehouerou/mpdlive/internal/status"
)

const separator = "  "

// Format renders s as: state, song, position, volume, audio quality, mode
// flags, disabled outputs and any server-reported error.
func Format(s status.Snapshot, ic icons.Icons) string {
	parts := []string{ic.State(s.State)}

	if !s.Song.IsZero() {
		parts = append(parts, songText(s.Song))
		if s.QueueLength > 0 && s.QueueIndex >= 0 {
			parts = append(parts, fmt.Sprintf("%d/%d", s.QueueIndex+1, s.QueueLength))
		}
		parts = append(parts, positionText(s.Elapsed, s.Duration))
	}

	parts = append(parts, volumeText(s, ic))

	if q := qualityText(s.Quality); q != "" && s.State != status.Stopped {
		parts = append(parts, q)
	}
	if flags := flagsText(s, ic); flags != "" {
		parts = append(parts, flags)
	}
	if off := disabledOutputs(s.Outputs); off != "" {
		parts = append(parts, "off: "+off)
	}
	if s.Error != "" {
		parts = append(parts, "! "+s.Error)
	}

	return strings.Join(parts, separator)
}

func songText(song status.Song) string {
	if song.Artist == "" {
		return song.DisplayTitle()
	}
	return song.Artist + " - " + song.DisplayTitle()
}

func positionText(elapsed, duration time.Duration) string {
	if duration <= 0 {
		return formatDuration(elapsed)
	}
	return formatDuration(elapsed) + " / " + formatDuration(duration)
}

func volumeText(s status.Snapshot, ic icons.Icons) string {
	if !s.VolumeEnabled {
		return ic.VolumeOff
	}
	return fmt.Sprintf("%s %d%%", ic.Volume, int(s.Volume*100+0.5))
}

// qualityText renders the audio format, e.g. "44.1 kHz 16bit Stereo 320 kbps".
func qualityText(q status.Quality) string {
	var parts []string
	if q.SampleRate > 0 {
		parts = append(parts, humanize.SIWithDigits(float64(q.SampleRate), 1, "Hz"))
	}
	if q.Encoding != "" {
		parts = append(parts, q.Encoding)
	}
	if q.Channels != "" {
		parts = append(parts, q.Channels)
	}
	if q.Bitrate > 0 {
		parts = append(parts, humanize.SIWithDigits(float64(q.Bitrate)*1000, 1, "bps"))
	}
	return strings.Join(parts, " ")
}

func flagsText(s status.Snapshot, ic icons.Icons) string {
	var flags []string
	if s.Random {
		flags = append(flags, ic.Shuffle)
	}
	if r := ic.Repeat(s.Repeat); r != "" {
		flags = append(flags, r)
	}
	if s.Consume {
		flags = append(flags, ic.Consume)
	}
	if s.UpdatingDB {
		flags = append(flags, ic.Updating)
	}
	return strings.Join(flags, " ")
}

func disabledOutputs(outputs []status.Output) string {
	var off []string
	for _, o := range outputs {
		if !o.Enabled {
			off = append(off, o.Name)
		}
	}
	return strings.Join(off, ", ")
}

func formatDuration(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// LastSeen renders a remembered song with its age, e.g.
// "Band - Song (3 hours ago)".
func LastSeen(artist, title string, at, now time.Time) string {
	text := title
	if artist != "" {
		text = artist + " - " + title
	}
	return fmt.Sprintf("%s (%s)", text, humanize.RelTime(at, now, "ago", "from now"))
}

package icons

import "github.com/llehouerou/mpdlive/internal/status"

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the player indicators for one style.
type Icons struct {
	Play        string
	Pause       string
	Stop        string
	Volume      string
	VolumeOff   string
	Shuffle     string
	Consume     string
	RepeatAll   string
	RepeatAlbum string
	RepeatOne   string
	Updating    string
}

var (
	nerdIcons = Icons{
		Play:        "\uf04b",     // nf-fa-play
		Pause:       "\uf04c",     // nf-fa-pause
		Stop:        "\uf04d",     // nf-fa-stop
		Volume:      "\uf028",     // nf-fa-volume_up
		VolumeOff:   "\uf026",     // nf-fa-volume_off
		Shuffle:     "\U000f049f", // nf-md-shuffle
		Consume:     "\uf1f8",     // nf-fa-trash
		RepeatAll:   "\U000f0456", // nf-md-repeat
		RepeatAlbum: "\U000f0025", // nf-md-album
		RepeatOne:   "\U000f0458", // nf-md-repeat_once
		Updating:    "\uf021",     // nf-fa-refresh
	}

	unicodeIcons = Icons{
		Play:        "▶",
		Pause:       "⏸",
		Stop:        "⏹",
		Volume:      "🔊",
		VolumeOff:   "🔇",
		Shuffle:     "🔀",
		Consume:     "✂",
		RepeatAll:   "🔁",
		RepeatAlbum: "💿",
		RepeatOne:   "🔂",
		Updating:    "🔄",
	}

	noneIcons = Icons{
		Play:        ">",
		Pause:       "||",
		Stop:        "[]",
		Volume:      "vol",
		VolumeOff:   "vol -",
		Shuffle:     "[S]",
		Consume:     "[C]",
		RepeatAll:   "[R]",
		RepeatAlbum: "[A]",
		RepeatOne:   "[1]",
		Updating:    "[U]",
	}
)

// ForStyle returns the icon set for style. Unknown styles get StyleNone.
func ForStyle(style string) Icons {
	switch Style(style) {
	case StyleNerd:
		return nerdIcons
	case StyleUnicode:
		return unicodeIcons
	default:
		return noneIcons
	}
}

// State returns the indicator for a play state.
func (i Icons) State(s status.PlayState) string {
	switch s {
	case status.Playing:
		return i.Play
	case status.Paused:
		return i.Pause
	default:
		return i.Stop
	}
}

// Repeat returns the indicator for a repeat mode, or "" when off.
func (i Icons) Repeat(m status.RepeatMode) string {
	switch m {
	case status.RepeatAll:
		return i.RepeatAll
	case status.RepeatAlbum:
		return i.RepeatAlbum
	case status.RepeatSingle:
		return i.RepeatOne
	default:
		return ""
	}
}

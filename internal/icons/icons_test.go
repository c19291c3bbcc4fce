package icons

import (
	"testing"

	"github.com/llehouerou/mpdlive/internal/status"
)

func TestForStyle(t *testing.T) {
	tests := []struct {
		name     string
		style    string
		expected Icons
	}{
		{"nerd style", "nerd", nerdIcons},
		{"unicode style", "unicode", unicodeIcons},
		{"none style", "none", noneIcons},
		{"empty defaults to none", "", noneIcons},
		{"invalid defaults to none", "fancy", noneIcons},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForStyle(tt.style); got != tt.expected {
				t.Errorf("ForStyle(%q) = %+v, want %+v", tt.style, got, tt.expected)
			}
		})
	}
}

func TestIcons_State(t *testing.T) {
	i := ForStyle("none")

	tests := []struct {
		state status.PlayState
		want  string
	}{
		{status.Playing, ">"},
		{status.Paused, "||"},
		{status.Stopped, "[]"},
	}
	for _, tt := range tests {
		if got := i.State(tt.state); got != tt.want {
			t.Errorf("State(%v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestIcons_Repeat(t *testing.T) {
	i := ForStyle("unicode")

	tests := []struct {
		mode status.RepeatMode
		want string
	}{
		{status.RepeatOff, ""},
		{status.RepeatAll, "🔁"},
		{status.RepeatAlbum, "💿"},
		{status.RepeatSingle, "🔂"},
	}
	for _, tt := range tests {
		if got := i.Repeat(tt.mode); got != tt.want {
			t.Errorf("Repeat(%v) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestAllStylesDefineEveryIcon(t *testing.T) {
	for _, style := range []Style{StyleNerd, StyleUnicode, StyleNone} {
		i := ForStyle(string(style))
		fields := map[string]string{
			"Play": i.Play, "Pause": i.Pause, "Stop": i.Stop,
			"Volume": i.Volume, "VolumeOff": i.VolumeOff,
			"Shuffle": i.Shuffle, "Consume": i.Consume,
			"RepeatAll": i.RepeatAll, "RepeatAlbum": i.RepeatAlbum, "RepeatOne": i.RepeatOne,
			"Updating": i.Updating,
		}
		for name, v := range fields {
			if v == "" {
				t.Errorf("%s style: %s is empty", style, name)
			}
		}
	}
}

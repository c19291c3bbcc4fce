package status

import "testing"

func TestDecodeAudioFormat(t *testing.T) {
	tests := []struct {
		format string
		want   Quality
	}{
		{"44100:16:2", Quality{SampleRate: 44100, Encoding: "16bit", Channels: "Stereo"}},
		{"96000:24:1", Quality{SampleRate: 96000, Encoding: "24bit", Channels: "Mono"}},
		{"48000:f:6", Quality{SampleRate: 48000, Encoding: "FLOAT", Channels: "6"}},
		{"2822400:dsd:2", Quality{SampleRate: 2822400, Encoding: "DSD", Channels: "Stereo"}},
		{"dsd64:2", Quality{SampleRate: 2822400, Encoding: "DSD64", Channels: "Stereo"}},
		{"dsd256:2", Quality{SampleRate: 11289600, Encoding: "DSD256", Channels: "Stereo"}},
		{"44100:32:2", Quality{SampleRate: 44100, Encoding: "32bit", Channels: "Stereo"}},
		{"", Quality{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := decodeAudioFormat(tt.format); got != tt.want {
				t.Errorf("decodeAudioFormat(%q) = %+v, want %+v", tt.format, got, tt.want)
			}
		})
	}
}

func TestDecodeAudioFormat_DSDStereo(t *testing.T) {
	q := decodeAudioFormat("2822400:DSD:2")
	if q.Encoding != "DSD" || q.Channels != "Stereo" {
		t.Errorf("got encoding=%q channels=%q, want DSD/Stereo", q.Encoding, q.Channels)
	}
}

package status

import (
	"strconv"
	"strings"
)

// dsdBaseRate is the sample rate DSD multiples are expressed against.
const dsdBaseRate = 44100

// decodeAudioFormat parses the daemon's "rate:bits:channels" format.
// DSD streams may also be reported as "dsdNN:channels".
func decodeAudioFormat(format string) Quality {
	var q Quality
	if format == "" {
		return q
	}

	parts := strings.Split(format, ":")
	rate := strings.ToLower(parts[0])

	if mult, ok := strings.CutPrefix(rate, "dsd"); ok && mult != "" {
		q.Encoding = "DSD" + mult
		if n, err := strconv.Atoi(mult); err == nil {
			q.SampleRate = n * dsdBaseRate
		}
		if len(parts) >= 2 {
			q.Channels = channelName(parts[len(parts)-1])
		}
		return q
	}

	q.SampleRate, _ = strconv.Atoi(parts[0])
	if len(parts) >= 2 {
		q.Encoding = encodingName(parts[1])
	}
	if len(parts) >= 3 {
		q.Channels = channelName(parts[2])
	}
	return q
}

func encodingName(bits string) string {
	switch strings.ToLower(bits) {
	case "", "*":
		return ""
	case "f":
		return "FLOAT"
	case "dsd":
		return "DSD"
	}
	if n, err := strconv.Atoi(bits); err == nil {
		return strconv.Itoa(n) + "bit"
	}
	return strings.ToUpper(bits)
}

func channelName(channels string) string {
	switch channels {
	case "1":
		return "Mono"
	case "2":
		return "Stereo"
	case "*":
		return ""
	default:
		return channels
	}
}

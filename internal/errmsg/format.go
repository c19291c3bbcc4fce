// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/mpdlive/internal/mpd"
	"github.com/llehouerou/mpdlive/internal/state"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Daemon operations
	OpConnect   Op = "connect to daemon"
	OpStatus    Op = "read player status"
	OpWatch     Op = "watch player status"
	OpSetVolume Op = "set volume"

	// Local state
	OpStateOpen  Op = "open state database"
	OpCurveLoad  Op = "load volume curve"
	OpCurveSave  Op = "save volume curve"
	OpCurveClear Op = "clear volume curve"
	OpLastSeen   Op = "read last played song"
	OpForget     Op = "forget player"

	// Desktop integration
	OpMPRIS  Op = "start MPRIS server"
	OpNotify Op = "send notification"

	// Initialization
	OpConfigLoad Op = "load configuration"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Failed to %s: %v", op, err)
	if hint := Hint(err); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	msg := fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
	if hint := Hint(err); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

// Hint suggests a fix for well-known error classes, or returns "".
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case mpd.IsAuth(err):
		return "check server.password"
	case errors.Is(err, mpd.ErrTimeout):
		return "is the daemon reachable?"
	case errors.Is(err, mpd.ErrClosed):
		return "the daemon closed the connection"
	case errors.Is(err, state.ErrInvalidCurve):
		return "use a value such as 0.3"
	default:
		return ""
	}
}

package mpd

import (
	"errors"
	"fmt"
	"io"
	"net"

	gompd "github.com/fhs/gompd/v2/mpd"
)

// Transport errors end the current session; the owner decides whether to
// reconnect.
var (
	ErrTransport = errors.New("mpd: transport error")
	ErrTimeout   = fmt.Errorf("%w: timeout", ErrTransport)
	ErrClosed    = fmt.Errorf("%w: connection closed", ErrTransport)
)

// Server-side rejections. These point at configuration problems and must
// not be retried blindly.
var (
	ErrAuth   = errors.New("mpd: authentication failed")
	ErrServer = errors.New("mpd: command rejected")
)

// ErrWaitCancelled is returned by Wait after CancelWait.
var ErrWaitCancelled = errors.New("mpd: wait cancelled")

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsAuth reports whether err is an authentication or permission failure.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// classify wraps a gompd error with the matching sentinel.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if code, ok := ackCode(err); ok {
		switch code {
		case gompd.ErrorPassword, gompd.ErrorPermission:
			return fmt.Errorf("%s: %w: %w", op, ErrAuth, err)
		default:
			return fmt.Errorf("%s: %w: %w", op, ErrServer, err)
		}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
		return fmt.Errorf("%s: %w: %w", op, ErrClosed, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
}

func ackCode(err error) (gompd.ErrorCode, bool) {
	var ack gompd.Error
	if errors.As(err, &ack) {
		return ack.Code, true
	}
	var ackPtr *gompd.Error
	if errors.As(err, &ackPtr) && ackPtr != nil {
		return ackPtr.Code, true
	}
	return 0, false
}

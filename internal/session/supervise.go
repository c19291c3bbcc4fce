package session

import (
	"context"
	"time"

	"github.com/llehouerou/mpdlive/internal/mpd"
)

// Backoff bounds the delay between reconnect attempts.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

const (
	defaultBackoffInitial = time.Second
	defaultBackoffMax     = 30 * time.Second
)

func (b Backoff) initialDelay() time.Duration {
	if b.Initial <= 0 {
		return defaultBackoffInitial
	}
	return b.Initial
}

func (b Backoff) maxDelay() time.Duration {
	if b.Max < b.initialDelay() {
		return max(defaultBackoffMax, b.initialDelay())
	}
	return b.Max
}

// Supervise keeps s running until ctx ends, restarting it with exponential
// backoff after each session-ending error. onErr, if set, sees every such
// error. Authentication errors are returned without retrying. Supervise
// returns nil if the session is stopped by someone else.
func Supervise(ctx context.Context, s *Session, b Backoff, onErr func(error)) error {
	delay := b.initialDelay()
	for {
		r := s.Start()
		started := time.Now()

		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-r.Done():
		}

		err := r.Err()
		if err == nil {
			return nil
		}
		if mpd.IsAuth(err) {
			return err
		}
		if onErr != nil {
			onErr(err)
		}

		// A session that stayed up for a while starts over from the
		// shortest delay.
		if time.Since(started) > b.maxDelay() {
			delay = b.initialDelay()
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, b.maxDelay())
	}
}

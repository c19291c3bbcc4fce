package session

import (
	"time"

	"github.com/llehouerou/mpdlive/internal/status"
)

// baseline is the last server-reported elapsed time and when it was
// received. Only the idle loop writes it.
type baseline struct {
	elapsed time.Duration
	at      time.Time
	valid   bool
}

func newBaseline(snap status.Snapshot) baseline {
	return baseline{elapsed: snap.Elapsed, at: time.Now(), valid: true}
}

// startEstimator launches the elapsed ticker. The returned func stops it
// and waits for the goroutine to exit.
func (s *Session) startEstimator() func() {
	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case now := <-ticker.C:
				s.estimate(now)
			}
		}
	}()

	return func() {
		close(quit)
		<-done
	}
}

// estimate publishes the latest snapshot with its elapsed time advanced to
// now. Nothing is published unless the daemon is playing.
func (s *Session) estimate(now time.Time) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	if !s.base.valid {
		return
	}
	latest, ok := s.hub.Latest()
	if !ok || !latest.IsPlaying() {
		return
	}

	elapsed := s.base.elapsed + now.Sub(s.base.at)
	if latest.Duration > 0 && elapsed > latest.Duration {
		elapsed = latest.Duration
	}
	s.hub.Publish(latest.WithElapsed(elapsed))
}

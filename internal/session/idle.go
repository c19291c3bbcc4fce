package session

import (
	"context"
	"fmt"

	"github.com/llehouerou/mpdlive/internal/mpd"
	"github.com/llehouerou/mpdlive/internal/pool"
	"github.com/llehouerou/mpdlive/internal/status"
)

// maxRefreshFailures consecutive failed refreshes end the session; a
// single failure is skipped.
const maxRefreshFailures = 2

// loop runs one idle loop execution and tears it down.
func (s *Session) loop(ctx context.Context, r *Run) {
	err := s.serve(ctx)

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	stopping := s.state == StateStopping
	s.mu.Unlock()

	_ = s.pool.Release(conn)

	s.pubMu.Lock()
	s.base = baseline{}
	s.pubMu.Unlock()

	if stopping {
		err = nil
	} else if err != nil {
		// Observers get the next session's initial snapshot even if it
		// equals the last one they saw.
		s.hub.Invalidate()
	}

	s.mu.Lock()
	s.state = StateStopped
	s.cancel()
	s.mu.Unlock()

	r.finish(err)
}

// serve drives Starting → Waiting → Notified → Refreshing → Waiting ...
// It returns nil when the loop was stopped.
func (s *Session) serve(ctx context.Context) error {
	conn, err := s.pool.Checkout(ctx, pool.High, pool.WithForceCleanup())
	if err != nil {
		return fmt.Errorf("checkout idle connection: %w", err)
	}
	if !s.attach(conn) {
		return nil
	}

	snap, err := s.builder.BuildOn(conn)
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	s.publish(snap)

	stopEstimator := s.startEstimator()
	defer stopEstimator()

	failures := 0
	for {
		if !s.transition(StateWaiting) {
			return nil
		}
		if _, err := conn.Wait(mpd.StatusCategories...); err != nil {
			return fmt.Errorf("wait for changes: %w", err)
		}
		if !s.transition(StateNotified) || !s.transition(StateRefreshing) {
			return nil
		}

		snap, err := s.builder.BuildOn(conn)
		if err != nil {
			failures++
			if failures >= maxRefreshFailures {
				return fmt.Errorf("refresh: %w", err)
			}
			continue
		}
		failures = 0
		s.publish(snap)
	}
}

// attach records the idle connection so Stop can reach it. It reports
// false if the loop is already stopping; the connection is then released
// by loop.
func (s *Session) attach(conn *pool.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
	return s.state != StateStopping
}

// transition moves to next unless the loop is stopping.
func (s *Session) transition(next State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopping {
		return false
	}
	s.state = next
	return true
}

// publish records snap as the elapsed baseline and hands it to the hub.
func (s *Session) publish(snap status.Snapshot) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.base = newBaseline(snap)
	s.hub.Publish(snap)
}

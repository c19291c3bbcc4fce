// Package session keeps a live, de-duplicated feed of a daemon's status.
//
// A Session runs two goroutines while started: the idle loop, which blocks
// on the daemon's idle command over a dedicated connection and republishes
// a snapshot after every change, and the elapsed estimator, which
// extrapolates the playing position between server round trips.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/llehouerou/mpdlive/internal/hub"
	"github.com/llehouerou/mpdlive/internal/mpd"
	"github.com/llehouerou/mpdlive/internal/pool"
	"github.com/llehouerou/mpdlive/internal/status"
)

// DefaultTick is the elapsed estimator's interval.
const DefaultTick = 250 * time.Millisecond

// Options configures a session.
type Options struct {
	Curve status.Curve
	Tick  time.Duration
}

// Session owns the live view of one daemon.
type Session struct {
	pool    *pool.Pool
	builder *status.Builder
	hub     *hub.Hub
	tick    time.Duration

	mu     sync.Mutex
	state  State
	run    *Run
	conn   *pool.Conn
	cancel context.CancelFunc

	// pubMu serializes "update baseline and publish" (idle loop) against
	// "read baseline and publish" (estimator).
	pubMu sync.Mutex
	base  baseline
}

// New creates a stopped session on p.
func New(p *pool.Pool, opts Options) *Session {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	return &Session{
		pool:    p,
		builder: status.NewBuilder(p, opts.Curve),
		hub:     hub.New(),
		tick:    opts.Tick,
	}
}

// State returns the loop's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a feed of de-duplicated snapshots. The latest snapshot,
// if any, is delivered first.
func (s *Session) Subscribe() *hub.Subscription {
	return s.hub.Subscribe()
}

// Latest returns the last published snapshot.
func (s *Session) Latest() (status.Snapshot, bool) {
	return s.hub.Latest()
}

// Curve returns the volume curve snapshots are corrected with.
func (s *Session) Curve() status.Curve {
	return s.builder.Curve()
}

// Start launches the idle loop and returns its handle. If a loop is already
// running, its handle is returned and nothing else happens. Start performs
// no network I/O itself.
func (s *Session) Start() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStopped {
		return s.run
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := newRun()
	s.run = r
	s.cancel = cancel
	s.state = StateStarting
	go s.loop(ctx, r)
	return r
}

// Stop ends the running loop and returns once its goroutines have exited
// and its connection is released. A wait in progress is cancelled on its
// own connection; a round trip in progress is cut short by closing the
// transport. Stop without a running loop is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	r := s.run
	if s.state == StateStopped || r == nil {
		s.mu.Unlock()
		return
	}
	prev := s.state
	conn := s.conn
	if prev != StateStopping {
		s.state = StateStopping
		s.cancel()
	}
	s.mu.Unlock()

	if prev != StateStopping && conn != nil {
		if prev == StateWaiting {
			_ = conn.CancelWait()
		} else {
			_ = s.pool.Release(conn)
		}
	}
	<-r.Done()
}

// ForceRefresh fetches a snapshot on a separate pooled connection, never
// the idle connection. The idle loop publishes the change itself once the
// daemon reports it.
func (s *Session) ForceRefresh(ctx context.Context) (status.Snapshot, error) {
	return s.builder.Build(ctx)
}

// Mutate sends fn's commands as one command list on a low-priority
// connection, then returns a fresh snapshot.
func (s *Session) Mutate(ctx context.Context, fn func(mpd.Batch)) (status.Snapshot, error) {
	conn, err := s.pool.Checkout(ctx, pool.Low)
	if err != nil {
		return status.Snapshot{}, err
	}
	err = conn.Batch(fn)
	_ = s.pool.Release(conn)
	if err != nil {
		return status.Snapshot{}, fmt.Errorf("send commands: %w", err)
	}
	return s.ForceRefresh(ctx)
}

// Close stops the session, ends every subscription and closes the
// connections marked for forced cleanup.
func (s *Session) Close() {
	s.Stop()
	s.hub.Close()
	s.pool.ForceCleanupAll()
}

// Run is the handle of one loop execution.
type Run struct {
	done chan struct{}
	err  error
}

func newRun() *Run {
	return &Run{done: make(chan struct{})}
}

// Done is closed when the loop has exited.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Err returns the error that ended the loop, or nil if it is still running
// or was stopped.
func (r *Run) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Wait blocks until the loop exits and returns Err.
func (r *Run) Wait() error {
	<-r.done
	return r.err
}

func (r *Run) finish(err error) {
	r.err = err
	close(r.done)
}

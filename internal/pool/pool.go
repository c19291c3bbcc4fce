// Package pool manages the connections a session opens to one daemon.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/llehouerou/mpdlive/internal/mpd"
)

// ErrUnavailable is returned when no connection could be checked out.
// It wraps the underlying cause (transport, auth or context error).
var ErrUnavailable = errors.New("pool: connection unavailable")

// Priority is a connection admission class.
type Priority int

const (
	// High is used by the idle loop and status refreshes.
	High Priority = iota
	// Low is used by mutating and browsing collaborators.
	Low
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return "unknown"
	}
}

const (
	DefaultMaxHigh = 2
	DefaultMaxLow  = 4
)

// Options bounds concurrent connections per priority class.
// Zero values select the defaults.
type Options struct {
	MaxHigh int
	MaxLow  int
}

// Conn is a pooled connection. It embeds the transport connection and is
// owned by whoever checked it out until released.
type Conn struct {
	mpd.Conn

	id           uuid.UUID
	priority     Priority
	forceCleanup bool
	alive        atomic.Bool
}

// ID returns the connection's opaque identifier.
func (c *Conn) ID() string { return c.id.String() }

// Priority returns the admission class the connection was checked out with.
func (c *Conn) Priority() Priority { return c.priority }

// ForceCleanup reports whether ForceCleanupAll closes this connection.
func (c *Conn) ForceCleanup() bool { return c.forceCleanup }

// Alive reports whether the connection has not been released.
func (c *Conn) Alive() bool { return c.alive.Load() }

// CheckoutOption configures a checkout.
type CheckoutOption func(*Conn)

// WithForceCleanup marks the connection for ForceCleanupAll.
func WithForceCleanup() CheckoutOption {
	return func(c *Conn) { c.forceCleanup = true }
}

// Pool opens and tracks connections to one endpoint.
//
// Limits count checked-out Conns, not sockets. A Conn that has issued Wait
// holds a second socket for the idle side (see mpd.GompdDialer), so a
// class at its limit may hold up to twice that many sockets to the daemon.
type Pool struct {
	dialer   mpd.Dialer
	endpoint mpd.Endpoint
	slots    map[Priority]chan struct{}

	mu   sync.Mutex
	live map[uuid.UUID]*Conn
}

// New creates a pool for ep.
func New(dialer mpd.Dialer, ep mpd.Endpoint, opts Options) *Pool {
	if opts.MaxHigh <= 0 {
		opts.MaxHigh = DefaultMaxHigh
	}
	if opts.MaxLow <= 0 {
		opts.MaxLow = DefaultMaxLow
	}
	return &Pool{
		dialer:   dialer,
		endpoint: ep,
		slots: map[Priority]chan struct{}{
			High: make(chan struct{}, opts.MaxHigh),
			Low:  make(chan struct{}, opts.MaxLow),
		},
		live: make(map[uuid.UUID]*Conn),
	}
}

// Endpoint returns the endpoint the pool dials.
func (p *Pool) Endpoint() mpd.Endpoint {
	return p.endpoint
}

// Checkout opens an authenticated connection. When the priority class is
// at its limit it waits for a release or for ctx to end.
func (p *Pool) Checkout(ctx context.Context, priority Priority, opts ...CheckoutOption) (*Conn, error) {
	slots, ok := p.slots[priority]
	if !ok {
		return nil, fmt.Errorf("%w: unknown priority %d", ErrUnavailable, priority)
	}

	select {
	case slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s slot: %w", ErrUnavailable, priority, ctx.Err())
	}

	conn, err := p.open(ctx)
	if err != nil {
		<-slots
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	c := &Conn{Conn: conn, id: uuid.New(), priority: priority}
	for _, opt := range opts {
		opt(c)
	}
	c.alive.Store(true)

	p.mu.Lock()
	p.live[c.id] = c
	p.mu.Unlock()
	return c, nil
}

func (p *Pool) open(ctx context.Context) (mpd.Conn, error) {
	conn, err := p.dialer.Dial(ctx, p.endpoint)
	if err != nil {
		return nil, err
	}
	if p.endpoint.Password != "" {
		if err := conn.Authenticate(p.endpoint.Password); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

// Release closes c and frees its slot. Releasing twice is a no-op.
func (p *Pool) Release(c *Conn) error {
	_, err := p.release(c)
	return err
}

func (p *Pool) release(c *Conn) (bool, error) {
	if c == nil || !c.alive.CompareAndSwap(true, false) {
		return false, nil
	}

	p.mu.Lock()
	delete(p.live, c.id)
	p.mu.Unlock()

	<-p.slots[c.priority]
	return true, c.Conn.Close()
}

// ForceCleanupAll releases every live connection checked out with
// WithForceCleanup and returns how many were closed.
func (p *Pool) ForceCleanupAll() int {
	p.mu.Lock()
	var targets []*Conn
	for _, c := range p.live {
		if c.forceCleanup {
			targets = append(targets, c)
		}
	}
	p.mu.Unlock()

	n := 0
	for _, c := range targets {
		if closed, _ := p.release(c); closed {
			n++
		}
	}
	return n
}

// Live returns the number of live connections of the given priority.
func (p *Pool) Live(priority Priority) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.live {
		if c.priority == priority {
			n++
		}
	}
	return n
}

// Len returns the number of live connections.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

package mpd

import (
	"context"
	"fmt"
	"sync"

	gompd "github.com/fhs/gompd/v2/mpd"
)

// Verify client implements Conn at compile time.
var _ Conn = (*client)(nil)

// GompdDialer dials daemons with gompd.
type GompdDialer struct{}

// Dial connects to ep, honouring ep.DialTimeout and ctx.
// It does not authenticate; see Conn.Authenticate.
func (GompdDialer) Dial(ctx context.Context, ep Endpoint) (Conn, error) {
	if ep.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ep.DialTimeout)
		defer cancel()
	}

	type result struct {
		c   *gompd.Client
		err error
	}
	ch := make(chan result, 1)
	go func() {
		c, err := gompd.Dial("tcp", ep.Address())
		ch <- result{c: c, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, classify("connect "+ep.Address(), r.err)
		}
		return &client{c: r.c, ep: ep}, nil
	case <-ctx.Done():
		// The dial goroutine may still succeed; close what it returns.
		go func() {
			if r := <-ch; r.c != nil {
				_ = r.c.Close()
			}
		}()
		return nil, fmt.Errorf("connect %s: %w: %w", ep.Address(), ErrTimeout, ctx.Err())
	}
}

type client struct {
	c  *gompd.Client
	ep Endpoint

	// The idle side of the connection. gompd only exposes idle/noidle
	// through its Watcher, which issues both on its own socket.
	mu            sync.Mutex
	watcher       *gompd.Watcher
	cancelPending bool
	closed        bool
}

func (c *client) Authenticate(password string) error {
	if err := c.c.Command("password %s", password).OK(); err != nil {
		return classify("password", err)
	}
	c.mu.Lock()
	c.ep.Password = password
	c.mu.Unlock()
	return nil
}

func (c *client) Status() (Attrs, error) {
	a, err := c.c.Status()
	if err != nil {
		return nil, classify("status", err)
	}
	return Attrs(a), nil
}

func (c *client) CurrentSong() (Attrs, error) {
	a, err := c.c.CurrentSong()
	if err != nil {
		return nil, classify("currentsong", err)
	}
	return Attrs(a), nil
}

func (c *client) Outputs() ([]Attrs, error) {
	list, err := c.c.ListOutputs()
	if err != nil {
		return nil, classify("outputs", err)
	}
	out := make([]Attrs, len(list))
	for i, a := range list {
		out[i] = Attrs(a)
	}
	return out, nil
}

func (c *client) Fetch() (Replies, error) {
	cl := c.c.BeginCommandList()
	status := cl.Status()
	song := cl.CurrentSong()
	if err := cl.End(); err != nil {
		return Replies{}, classify("command list", err)
	}

	st, err := status.Value()
	if err != nil {
		return Replies{}, classify("status", err)
	}
	cs, err := song.Value()
	if err != nil {
		return Replies{}, classify("currentsong", err)
	}
	outputs, err := c.Outputs()
	if err != nil {
		return Replies{}, err
	}

	return Replies{Status: Attrs(st), Song: Attrs(cs), Outputs: outputs}, nil
}

func (c *client) Wait(categories ...Category) ([]Category, error) {
	w, err := c.watch(categories)
	if err != nil {
		return nil, err
	}

	select {
	case name, ok := <-w.Event:
		if !ok {
			return nil, c.watchEnded(w)
		}
		changed := []Category{Category(name)}
		for {
			select {
			case name, ok := <-w.Event:
				if !ok {
					return changed, nil
				}
				changed = append(changed, Category(name))
			default:
				return changed, nil
			}
		}
	case err, ok := <-w.Error:
		if !ok {
			return nil, c.watchEnded(w)
		}
		if c.detach(w) {
			_ = w.Close()
		}
		return nil, classify("idle", err)
	}
}

// watch returns the watcher to read from, opening one if needed. A
// pending cancel is consumed here.
func (c *client) watch(categories []Category) (*gompd.Watcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("idle: %w", ErrClosed)
	}
	if c.cancelPending {
		c.cancelPending = false
		return nil, ErrWaitCancelled
	}
	if c.watcher != nil {
		return c.watcher, nil
	}

	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = string(cat)
	}
	w, err := gompd.NewWatcher("tcp", c.ep.Address(), c.ep.Password, names...)
	if err != nil {
		return nil, classify("idle", err)
	}
	c.watcher = w
	return w, nil
}

// watchEnded explains why w's channels closed under a reader.
func (c *client) watchEnded(w *gompd.Watcher) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return fmt.Errorf("idle: %w", ErrClosed)
	case c.cancelPending:
		c.cancelPending = false
		return ErrWaitCancelled
	default:
		if c.watcher == w {
			c.watcher = nil
		}
		return fmt.Errorf("idle: %w", ErrClosed)
	}
}

// detach forgets w and reports whether the caller now owns closing it.
func (c *client) detach(w *gompd.Watcher) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher != w {
		return false
	}
	c.watcher = nil
	return true
}

// CancelWait records a cancel and closes the watcher, if any. The cancel
// stays pending until a Wait returns ErrWaitCancelled, whether that Wait
// is in flight or not yet issued.
func (c *client) CancelWait() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("noidle: %w", ErrClosed)
	}
	w := c.watcher
	c.watcher = nil
	c.cancelPending = true
	c.mu.Unlock()

	if w == nil {
		return nil
	}
	// Close sends noidle on the watcher's socket and closes its channels.
	if err := w.Close(); err != nil {
		return classify("noidle", err)
	}
	return nil
}

func (c *client) Batch(fn func(Batch)) error {
	cl := c.c.BeginCommandList()
	fn(commandList{cl: cl})
	if err := cl.End(); err != nil {
		return classify("command list", err)
	}
	return nil
}

func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
	if err := c.c.Close(); err != nil {
		return classify("close", err)
	}
	return nil
}

// commandList adapts gompd's command list to Batch.
type commandList struct {
	cl *gompd.CommandList
}

func (b commandList) Play(pos int)          { b.cl.Play(pos) }
func (b commandList) Pause(pause bool)      { b.cl.Pause(pause) }
func (b commandList) Next()                 { b.cl.Next() }
func (b commandList) Previous()             { b.cl.Previous() }
func (b commandList) Stop()                 { b.cl.Stop() }
func (b commandList) SetVolume(volume int)  { b.cl.SetVolume(volume) }
func (b commandList) Clear()                { b.cl.Clear() }
func (b commandList) Add(uri string)        { b.cl.Add(uri) }
func (b commandList) Delete(start, end int) { b.cl.Delete(start, end) }

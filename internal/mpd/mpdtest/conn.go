package mpdtest

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/llehouerou/mpdlive/internal/mpd"
)

type waitResult struct {
	changed []mpd.Category
	err     error
}

// Conn is one fake connection.
type Conn struct {
	srv  *Server
	wake chan waitResult

	mu            sync.Mutex
	closed        bool
	waiting       bool
	categories    []mpd.Category
	pending       []mpd.Category
	cancelPending bool
	cancels       int
	waits         int
}

// IsWaiting reports whether a Wait is outstanding.
func (c *Conn) IsWaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting
}

// IsClosed reports whether the connection was closed.
func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Cancels returns how many outstanding waits were cancelled.
func (c *Conn) Cancels() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancels
}

// Waits returns how many Wait calls were made.
func (c *Conn) Waits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waits
}

func (c *Conn) Authenticate(password string) error {
	if err := c.check("password"); err != nil {
		return err
	}
	c.srv.mu.Lock()
	want := c.srv.password
	c.srv.mu.Unlock()
	if password != want {
		return fmt.Errorf("password: %w: incorrect password", mpd.ErrAuth)
	}
	return nil
}

func (c *Conn) Status() (mpd.Attrs, error) {
	r, err := c.Fetch()
	return r.Status, err
}

func (c *Conn) CurrentSong() (mpd.Attrs, error) {
	r, err := c.Fetch()
	return r.Song, err
}

func (c *Conn) Outputs() ([]mpd.Attrs, error) {
	r, err := c.Fetch()
	return r.Outputs, err
}

func (c *Conn) Fetch() (mpd.Replies, error) {
	if err := c.check("status"); err != nil {
		return mpd.Replies{}, err
	}
	return c.srv.fetch()
}

func (c *Conn) Wait(categories ...mpd.Category) ([]mpd.Category, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("idle: %w", mpd.ErrClosed)
	}
	if c.waiting {
		c.mu.Unlock()
		panic("mpdtest: Wait while a wait is outstanding")
	}
	c.waits++
	if c.cancelPending {
		c.cancelPending = false
		c.mu.Unlock()
		return nil, mpd.ErrWaitCancelled
	}
	c.categories = categories
	if changed := c.filter(c.pending); len(changed) > 0 {
		c.pending = nil
		c.mu.Unlock()
		return changed, nil
	}
	c.pending = nil
	c.waiting = true
	c.mu.Unlock()

	r := <-c.wake

	c.mu.Lock()
	c.waiting = false
	c.mu.Unlock()
	return r.changed, r.err
}

func (c *Conn) CancelWait() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("noidle: %w", mpd.ErrClosed)
	}
	if !c.waiting {
		c.cancelPending = true
		return nil
	}
	c.cancels++
	c.send(waitResult{err: mpd.ErrWaitCancelled})
	return nil
}

func (c *Conn) Batch(fn func(mpd.Batch)) error {
	if err := c.check("command list"); err != nil {
		return err
	}
	b := &batch{}
	fn(b)

	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	c.srv.batches = append(c.srv.batches, b.names)
	if b.volume != nil {
		c.srv.status["volume"] = strconv.Itoa(*b.volume)
	}
	return nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.waiting {
		c.send(waitResult{err: fmt.Errorf("idle: %w", mpd.ErrClosed)})
	}
	c.mu.Unlock()
	c.srv.connClosed()
	return nil
}

// check fails calls made on a closed connection or while waiting, which
// would desynchronize a real daemon.
func (c *Conn) check(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("%s: %w", op, mpd.ErrClosed)
	}
	if c.waiting {
		panic("mpdtest: " + op + " while a wait is outstanding")
	}
	return nil
}

func (c *Conn) notify(categories []mpd.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if !c.waiting {
		c.pending = append(c.pending, categories...)
		return
	}
	if changed := c.filter(categories); len(changed) > 0 {
		c.send(waitResult{changed: changed})
	}
}

func (c *Conn) drop() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.waiting {
		c.send(waitResult{err: fmt.Errorf("idle: %w", mpd.ErrClosed)})
	}
	c.mu.Unlock()
	c.srv.connClosed()
}

// send delivers the wait result; the wake buffer holds exactly one.
// Callers hold c.mu.
func (c *Conn) send(r waitResult) {
	select {
	case c.wake <- r:
		c.waiting = false
	default:
	}
}

func (c *Conn) filter(categories []mpd.Category) []mpd.Category {
	var out []mpd.Category
	for _, cat := range categories {
		if len(c.categories) > 0 && !slices.Contains(c.categories, cat) {
			continue
		}
		if !slices.Contains(out, cat) {
			out = append(out, cat)
		}
	}
	return out
}

type batch struct {
	names  []string
	volume *int
}

func (b *batch) Play(int)   { b.names = append(b.names, "play") }
func (b *batch) Pause(bool) { b.names = append(b.names, "pause") }
func (b *batch) Next()      { b.names = append(b.names, "next") }
func (b *batch) Previous()  { b.names = append(b.names, "previous") }
func (b *batch) Stop()      { b.names = append(b.names, "stop") }
func (b *batch) Clear()     { b.names = append(b.names, "clear") }
func (b *batch) Add(string) { b.names = append(b.names, "add") }

func (b *batch) Delete(int, int) { b.names = append(b.names, "delete") }

func (b *batch) SetVolume(volume int) {
	b.names = append(b.names, "setvol")
	b.volume = &volume
}

// Package mpdtest provides an in-memory daemon for testing code built on
// mpd.Conn.
package mpdtest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/llehouerou/mpdlive/internal/mpd"
)

// Verify Server and Conn implement the mpd interfaces at compile time.
var (
	_ mpd.Dialer = (*Server)(nil)
	_ mpd.Conn   = (*Conn)(nil)
)

// Server is a fake daemon. Its zero value is not usable; call NewServer.
type Server struct {
	mu sync.Mutex

	status  mpd.Attrs
	song    mpd.Attrs
	outputs []mpd.Attrs

	password    string
	dialErr     error
	fetchErr    error
	fetchFails  int
	conns       []*Conn
	dials       int
	closedConns int
	batches     [][]string
}

// NewServer returns a stopped daemon with an empty queue.
func NewServer() *Server {
	return &Server{
		status: mpd.Attrs{
			"volume":         "50",
			"repeat":         "0",
			"random":         "0",
			"single":         "0",
			"consume":        "0",
			"playlist":       "1",
			"playlistlength": "0",
			"state":          "stop",
		},
		song: mpd.Attrs{},
	}
}

// SetStatus replaces status keys. An empty value deletes the key.
func (s *Server) SetStatus(kv mpd.Attrs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range kv {
		if v == "" {
			delete(s.status, k)
			continue
		}
		s.status[k] = v
	}
}

// SetSong replaces the current song record.
func (s *Server) SetSong(song mpd.Attrs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.song = maps.Clone(song)
}

// SetOutputs replaces the output list.
func (s *Server) SetOutputs(outputs ...mpd.Attrs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs = outputs
}

// SetPassword makes Authenticate reject anything but password.
func (s *Server) SetPassword(password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.password = password
}

// FailDials makes every Dial return err until reset with nil.
func (s *Server) FailDials(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialErr = err
}

// FailFetches makes the next n Fetch calls return err.
func (s *Server) FailFetches(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchFails = n
	s.fetchErr = err
}

// Notify reports a change to every connection. Connections not currently
// waiting receive it on their next Wait, as the daemon queues idle events.
func (s *Server) Notify(categories ...mpd.Category) {
	s.mu.Lock()
	conns := slices.Clone(s.conns)
	s.mu.Unlock()
	for _, c := range conns {
		c.notify(categories)
	}
}

// Drop closes every open connection from the server side.
func (s *Server) Drop() {
	s.mu.Lock()
	conns := slices.Clone(s.conns)
	s.mu.Unlock()
	for _, c := range conns {
		c.drop()
	}
}

// Dials returns the number of successful dials.
func (s *Server) Dials() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dials
}

// Open returns the number of connections not yet closed.
func (s *Server) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns) - s.closedConns
}

// Waiting returns the number of connections blocked in Wait.
func (s *Server) Waiting() int {
	s.mu.Lock()
	conns := slices.Clone(s.conns)
	s.mu.Unlock()
	n := 0
	for _, c := range conns {
		if c.IsWaiting() {
			n++
		}
	}
	return n
}

// Batches returns the command lists received, one slice of command names
// per list.
func (s *Server) Batches() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.batches)
}

// Conns returns every connection dialed so far.
func (s *Server) Conns() []*Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.conns)
}

// Dial implements mpd.Dialer.
func (s *Server) Dial(ctx context.Context, _ mpd.Endpoint) (mpd.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("connect: %w: %w", mpd.ErrTimeout, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialErr != nil {
		return nil, s.dialErr
	}
	c := &Conn{srv: s, wake: make(chan waitResult, 1)}
	s.conns = append(s.conns, c)
	s.dials++
	return c, nil
}

func (s *Server) fetch() (mpd.Replies, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchFails > 0 {
		s.fetchFails--
		return mpd.Replies{}, s.fetchErr
	}
	outputs := make([]mpd.Attrs, len(s.outputs))
	for i, o := range s.outputs {
		outputs[i] = maps.Clone(o)
	}
	return mpd.Replies{
		Status:  maps.Clone(s.status),
		Song:    maps.Clone(s.song),
		Outputs: outputs,
	}, nil
}

func (s *Server) connClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closedConns++
}

package mpd

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const replyTimeout = 2 * time.Second

// daemon speaks enough of the protocol over loopback TCP to drive the
// gompd-backed client: greeting, password, status, currentsong, outputs,
// command lists and idle/noidle. Idle blocks until changed or noidle.
type daemon struct {
	ln       net.Listener
	password string
	mute     bool // accept connections but never greet

	mu       sync.Mutex
	conns    []net.Conn
	idling   map[net.Conn]bool
	commands []string

	idles chan struct{}
}

func newDaemon(t *testing.T, opts ...func(*daemon)) *daemon {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	d := &daemon{
		ln:     ln,
		idling: make(map[net.Conn]bool),
		idles:  make(chan struct{}, 64),
	}
	for _, opt := range opts {
		opt(d)
	}
	t.Cleanup(d.shutdown)
	go d.accept()
	return d
}

func withPassword(p string) func(*daemon) { return func(d *daemon) { d.password = p } }
func muted(d *daemon)                        { d.mute = true }

func (d *daemon) endpoint() Endpoint {
	return Endpoint{
		Host:        "127.0.0.1",
		Port:        d.ln.Addr().(*net.TCPAddr).Port,
		Password:    d.password,
		DialTimeout: replyTimeout,
	}
}

func (d *daemon) dial(t *testing.T) Conn {
	t.Helper()
	conn, err := GompdDialer{}.Dial(t.Context(), d.endpoint())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func (d *daemon) accept() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.mu.Lock()
		d.conns = append(d.conns, conn)
		d.mu.Unlock()
		if !d.mute {
			go d.serve(conn)
		}
	}
}

func (d *daemon) shutdown() {
	_ = d.ln.Close()
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.conns {
		_ = c.Close()
	}
}

// changed answers every outstanding idle with one changed subsystem.
func (d *daemon) changed(subsystem string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for c := range d.idling {
		_, _ = c.Write([]byte("changed: " + subsystem + "\nOK\n"))
		delete(d.idling, c)
	}
}

// waitIdle blocks until some connection has issued idle.
func (d *daemon) waitIdle(t *testing.T) {
	t.Helper()
	select {
	case <-d.idles:
	case <-time.After(replyTimeout):
		t.Fatal("daemon never saw idle")
	}
}

func (d *daemon) accepted() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

func (d *daemon) received() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

func (d *daemon) write(c net.Conn, s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = c.Write([]byte(s))
}

func (d *daemon) serve(c net.Conn) {
	d.write(c, "OK MPD 0.23.5\n")
	r := bufio.NewReader(c)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSuffix(line, "\n")

		d.mu.Lock()
		d.commands = append(d.commands, line)
		d.mu.Unlock()

		switch {
		case line == "close":
			return
		case strings.HasPrefix(line, "idle"):
			d.mu.Lock()
			d.idling[c] = true
			d.mu.Unlock()
			d.idles <- struct{}{}
		case line == "noidle":
			d.mu.Lock()
			if d.idling[c] {
				delete(d.idling, c)
				_, _ = c.Write([]byte("OK\n"))
			}
			d.mu.Unlock()
		case strings.HasPrefix(line, "password"):
			if d.password != "" && !strings.Contains(line, d.password) {
				d.write(c, "ACK [3@0] {password} incorrect password\n")
				continue
			}
			d.write(c, "OK\n")
		case line == "command_list_ok_begin":
			var reply strings.Builder
			for {
				cmd, err := r.ReadString('\n')
				if err != nil {
					return
				}
				cmd = strings.TrimSuffix(cmd, "\n")
				if cmd == "command_list_end" {
					break
				}
				d.mu.Lock()
				d.commands = append(d.commands, cmd)
				d.mu.Unlock()
				reply.WriteString(body(cmd) + "list_OK\n")
			}
			d.write(c, reply.String()+"OK\n")
		default:
			d.write(c, body(line)+"OK\n")
		}
	}
}

func body(cmd string) string {
	switch cmd {
	case "status":
		return "volume: 42\nrepeat: 1\nsingle: 0\nstate: play\nsong: 0\nplaylistlength: 3\nelapsed: 12.000\nduration: 200.000\n"
	case "currentsong":
		return "file: Band/LP/01.flac\nTitle: Song\nArtist: Band\n"
	case "outputs":
		return "outputid: 0\noutputname: Speakers\noutputenabled: 1\n"
	default:
		return ""
	}
}

package mpd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type waitResult struct {
	changed []Category
	err     error
}

func waitAsync(conn Conn) <-chan waitResult {
	ch := make(chan waitResult, 1)
	go func() {
		changed, err := conn.Wait(StatusCategories...)
		ch <- waitResult{changed, err}
	}()
	return ch
}

func result(t *testing.T, ch <-chan waitResult) waitResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(replyTimeout):
		t.Fatal("Wait did not return")
		return waitResult{}
	}
}

// nextChange waits for one change notification end to end.
func nextChange(t *testing.T, d *daemon, conn Conn) {
	t.Helper()
	ch := waitAsync(conn)
	d.waitIdle(t)
	d.changed("player")
	r := result(t, ch)
	require.NoError(t, r.err)
	assert.Equal(t, []Category{CategoryPlayer}, r.changed)
}

func TestClient_Fetch(t *testing.T) {
	d := newDaemon(t)
	conn := d.dial(t)

	r, err := conn.Fetch()
	require.NoError(t, err)

	assert.Equal(t, "42", r.Status["volume"])
	assert.Equal(t, "play", r.Status["state"])
	assert.Equal(t, "Band/LP/01.flac", r.Song["file"])
	require.Len(t, r.Outputs, 1)
	assert.Equal(t, "Speakers", r.Outputs[0]["outputname"])
}

func TestClient_Batch(t *testing.T) {
	d := newDaemon(t)
	conn := d.dial(t)

	err := conn.Batch(func(b Batch) {
		b.SetVolume(30)
		b.Next()
	})
	require.NoError(t, err)

	assert.Contains(t, d.received(), "setvol 30")
	assert.Contains(t, d.received(), "next")
}

func TestClient_AuthenticateRejected(t *testing.T) {
	d := newDaemon(t, withPassword("secret"))
	conn := d.dial(t)

	err := conn.Authenticate("wrong")

	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.NoError(t, conn.Authenticate("secret"))
}

func TestClient_WaitReportsChanges(t *testing.T) {
	d := newDaemon(t)
	conn := d.dial(t)

	nextChange(t, d, conn)
	nextChange(t, d, conn)
}

func TestClient_IdleUsesOneExtraSocket(t *testing.T) {
	d := newDaemon(t)
	conn := d.dial(t)
	require.Equal(t, 1, d.accepted())

	nextChange(t, d, conn)
	nextChange(t, d, conn)

	assert.Equal(t, 2, d.accepted(), "the watcher socket is opened once and reused")
}

func TestClient_CancelBeforeFirstWait(t *testing.T) {
	d := newDaemon(t)
	conn := d.dial(t)

	require.NoError(t, conn.CancelWait())
	r := result(t, waitAsync(conn))

	assert.ErrorIs(t, r.err, ErrWaitCancelled)
}

func TestClient_CancelBetweenWaits(t *testing.T) {
	d := newDaemon(t)
	conn := d.dial(t)

	nextChange(t, d, conn)
	d.waitIdle(t) // the watcher idles again right away

	require.NoError(t, conn.CancelWait())
	r := result(t, waitAsync(conn))
	assert.ErrorIs(t, r.err, ErrWaitCancelled)

	// The cancel is used up; waiting works again afterwards.
	nextChange(t, d, conn)
}

func TestClient_CancelDuringWait(t *testing.T) {
	d := newDaemon(t)
	conn := d.dial(t)

	ch := waitAsync(conn)
	d.waitIdle(t)
	require.NoError(t, conn.CancelWait())

	r := result(t, ch)
	assert.ErrorIs(t, r.err, ErrWaitCancelled)

	nextChange(t, d, conn)
}

func TestClient_CloseDuringWait(t *testing.T) {
	d := newDaemon(t)
	conn := d.dial(t)

	ch := waitAsync(conn)
	d.waitIdle(t)
	require.NoError(t, conn.Close())

	r := result(t, ch)
	assert.ErrorIs(t, r.err, ErrClosed)
	assert.NotErrorIs(t, r.err, ErrWaitCancelled)

	_, err := conn.Wait(StatusCategories...)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, conn.CancelWait(), ErrClosed)
}

func TestGompdDialer_Timeout(t *testing.T) {
	d := newDaemon(t, muted)
	ep := d.endpoint()
	ep.DialTimeout = 50 * time.Millisecond

	start := time.Now()
	_, err := GompdDialer{}.Dial(context.Background(), ep)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), replyTimeout)
}

func TestGompdDialer_ContextCancelled(t *testing.T) {
	d := newDaemon(t, muted)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GompdDialer{}.Dial(ctx, d.endpoint())

	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.Canceled)
}

package hub

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mpdlive/internal/status"
)

func snap(elapsed time.Duration) status.Snapshot {
	return status.Snapshot{Player: status.Player{State: status.Playing, Elapsed: elapsed}}
}

// drain returns everything currently buffered on sub.
func drain(sub *Subscription) []status.Snapshot {
	var got []status.Snapshot
	for {
		select {
		case s := <-sub.C:
			got = append(got, s)
		default:
			return got
		}
	}
}

func TestPublish_SuppressesDuplicates(t *testing.T) {
	h := New()
	a := h.Subscribe()
	b := h.Subscribe()

	assert.True(t, h.Publish(snap(time.Second)))
	assert.False(t, h.Publish(snap(time.Second)))

	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
}

func TestPublish_DeliversChanges(t *testing.T) {
	h := New()
	sub := h.Subscribe()

	h.Publish(snap(1 * time.Second))
	h.Publish(snap(2 * time.Second))
	h.Publish(snap(2 * time.Second))
	h.Publish(snap(1 * time.Second))

	got := drain(sub)
	require.Len(t, got, 3)
	assert.Equal(t, 1*time.Second, got[0].Elapsed)
	assert.Equal(t, 2*time.Second, got[1].Elapsed)
	assert.Equal(t, 1*time.Second, got[2].Elapsed)
}

func withOutput(enabled bool) status.Snapshot {
	s := snap(time.Second)
	s.Outputs = []status.Output{{ID: 0, Name: "DAC", Enabled: enabled}}
	return s
}

func TestPublish_CallerCannotAlterPublished(t *testing.T) {
	h := New()
	s := withOutput(true)
	h.Publish(s)

	s.Outputs[0].Enabled = false

	latest, _ := h.Latest()
	assert.True(t, latest.Outputs[0].Enabled)
	assert.True(t, h.Publish(s), "the altered value is a change")
}

func TestPublish_SubscribersGetIndependentCopies(t *testing.T) {
	h := New()
	a := h.Subscribe()
	b := h.Subscribe()
	h.Publish(withOutput(true))

	gotA := drain(a)
	gotB := drain(b)
	require.Len(t, gotA, 1)
	require.Len(t, gotB, 1)
	gotA[0].Outputs[0].Enabled = false

	assert.True(t, gotB[0].Outputs[0].Enabled)
	latest, _ := h.Latest()
	assert.True(t, latest.Outputs[0].Enabled)
	assert.False(t, h.Publish(withOutput(true)), "hub state is untouched")

	late := h.Subscribe()
	replay := drain(late)
	require.Len(t, replay, 1)
	assert.True(t, replay[0].Outputs[0].Enabled)
}

func TestSubscribe_ReplaysCurrentValue(t *testing.T) {
	h := New()
	h.Publish(snap(5 * time.Second))

	sub := h.Subscribe()

	got := drain(sub)
	require.Len(t, got, 1)
	assert.Equal(t, 5*time.Second, got[0].Elapsed)
}

func TestSubscribe_NoReplayWhenEmpty(t *testing.T) {
	h := New()
	sub := h.Subscribe()

	assert.Empty(t, drain(sub))
}

func TestInvalidate_RedeliversEqualSnapshot(t *testing.T) {
	h := New()
	sub := h.Subscribe()
	h.Publish(snap(time.Second))

	h.Invalidate()
	_, ok := h.Latest()
	assert.False(t, ok)

	assert.True(t, h.Publish(snap(time.Second)))
	assert.Len(t, drain(sub), 2)
}

func TestSend_KeepsNewestWhenFull(t *testing.T) {
	h := New()
	sub := h.Subscribe()

	for i := range bufferSize + 5 {
		h.Publish(snap(time.Duration(i) * time.Second))
	}

	got := drain(sub)
	require.Len(t, got, bufferSize)
	assert.Equal(t, 5*time.Second, got[0].Elapsed)
	assert.Equal(t, time.Duration(bufferSize+4)*time.Second, got[len(got)-1].Elapsed)
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := New()
		sub := h.Subscribe()

		sub.Unsubscribe()
		<-sub.Done
		h.Publish(snap(time.Second))

		assert.Empty(t, drain(sub))
		sub.Unsubscribe()
	})
}

func TestClose_SignalsDone(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := New()
		sub := h.Subscribe()

		h.Close()
		<-sub.Done

		assert.False(t, h.Publish(snap(time.Second)))
		late := h.Subscribe()
		<-late.Done
	})
}

func TestPublish_ConcurrentPublishersDeliverEachValueOnce(t *testing.T) {
	h := New()
	sub := h.Subscribe()

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			h.Publish(snap(time.Minute))
		})
	}
	wg.Wait()

	assert.Len(t, drain(sub), 1)
}

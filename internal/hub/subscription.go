package hub

import (
	"sync"

	"github.com/llehouerou/mpdlive/internal/status"
)

const bufferSize = 16

// Subscription receives snapshots from a Hub.
type Subscription struct {
	// C yields de-duplicated snapshots. It is never closed; select on Done.
	C    <-chan status.Snapshot
	Done <-chan struct{}

	ch        chan status.Snapshot
	done      chan struct{}
	hub       *Hub
	closeOnce sync.Once
}

func newSubscription(h *Hub) *Subscription {
	s := &Subscription{
		ch:   make(chan status.Snapshot, bufferSize),
		done: make(chan struct{}),
		hub:  h,
	}
	s.C = s.ch
	s.Done = s.done
	return s
}

// Unsubscribe detaches the subscription and closes Done.
func (s *Subscription) Unsubscribe() {
	s.hub.remove(s)
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// send delivers without blocking. When the buffer is full the oldest
// pending snapshot is dropped, so a slow reader still ends on the latest.
// Callers hold the hub lock.
func (s *Subscription) send(v status.Snapshot) {
	for {
		select {
		case s.ch <- v:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

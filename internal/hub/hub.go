// Package hub multicasts status snapshots to subscribers, suppressing
// consecutive duplicates.
package hub

import (
	"sync"

	"github.com/llehouerou/mpdlive/internal/status"
)

// Hub is the publication point for one session. Publish is safe for
// concurrent use. The hub keeps its own copy of the last snapshot and every
// subscriber receives an independent copy, so no one can alter what others
// see.
type Hub struct {
	mu     sync.Mutex
	last   status.Snapshot
	has    bool
	subs   []*Subscription
	closed bool
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{}
}

// Publish delivers s to every subscriber unless it equals the last
// delivered snapshot. It reports whether s was delivered.
func (h *Hub) Publish(s status.Snapshot) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	if h.has && h.last.Equal(s) {
		return false
	}
	h.last = s.Clone()
	h.has = true
	for _, sub := range h.subs {
		sub.send(h.last.Clone())
	}
	return true
}

// Latest returns the last delivered snapshot.
func (h *Hub) Latest() (status.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last.Clone(), h.has
}

// Invalidate forgets the last delivered snapshot, so the next Publish is
// delivered even if it is equal. Used when a session drops: after a
// reconnect observers get the fresh initial snapshot.
func (h *Hub) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = status.Snapshot{}
	h.has = false
}

// Subscribe registers a subscriber. The current snapshot, if any, is
// replayed to it first; afterwards it only sees changes.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := newSubscription(h)
	if h.closed {
		sub.close()
		return sub
	}
	if h.has {
		sub.send(h.last.Clone())
	}
	h.subs = append(h.subs, sub)
	return sub
}

// Close ends every subscription. Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, sub := range h.subs {
		sub.close()
	}
	h.subs = nil
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, s := range h.subs {
		if s == sub {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			break
		}
	}
	sub.close()
}

/*
DESCRIPTION
  broadcast.go implements Broadcaster: synchronous fan-out of Events to
  every registered Listener, on the publishing goroutine.

AUTHORS
  Priya Deshmukh <priya@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package broadcast

import "sync"

// Subscription identifies a previously registered Listener so it can be
// removed later; Listener values (including func-backed ones built with
// ListenerFunc) are not generally comparable, so identity is tracked by
// token rather than by the Listener value itself.
type Subscription struct{ id uint64 }

type entry struct {
	id uint64
	l  Listener
}

// Broadcaster fans Events out to every registered Listener.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners []entry
	nextID    uint64
}

// New returns an empty Broadcaster.
func New() *Broadcaster {
	return &Broadcaster{}
}

// AddListener registers l to receive future events and returns a
// Subscription that RemoveListener accepts.
func (b *Broadcaster) AddListener(l Listener) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, entry{id: id, l: l})
	return Subscription{id: id}
}

// RemoveListener unregisters the listener identified by sub. It is a no-op
// if sub does not correspond to a currently registered listener.
func (b *Broadcaster) RemoveListener(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.listeners {
		if e.id == sub.id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Broadcast dispatches e to every registered listener, synchronously, on
// the calling goroutine. Listeners must not block.
func (b *Broadcaster) Broadcast(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, e2 := range b.listeners {
		e2.l.OnEvent(e)
	}
}

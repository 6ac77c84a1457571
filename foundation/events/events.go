// Package events allows for the registering and receiving of events.
package events

import (
	"fmt"
	"strings"
	"sync"
)

// messageBuffer is how many events a slow subscriber can fall behind before
// events are dropped for it. A websocket send can take a while.
const messageBuffer = 100

// subscriber is a registered receiver and the event sources it wants.
type subscriber struct {
	ch      chan string
	sources []string
}

// wants reports if the event comes from one of the requested sources. Events
// are logged as "source: Function: ..." and no sources means everything.
func (s subscriber) wants(event string) bool {
	if len(s.sources) == 0 {
		return true
	}

	source, _, _ := strings.Cut(event, ":")
	for _, src := range s.sources {
		if source == src {
			return true
		}
	}

	return false
}

// Events maintains a mapping of unique id and subscribers so goroutines
// can register and receive events.
type Events struct {
	mu   sync.RWMutex
	subs map[string]subscriber
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		subs: make(map[string]subscriber),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.subs {
		delete(evt.subs, id)
		close(sub.ch)
	}
}

// Acquire takes a unique id and the event sources of interest, such as
// "state" or "peer", and returns a channel that receives those events.
func (evt *Events) Acquire(id string, sources ...string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.subs[id]; exists {
		return sub.ch
	}

	var srcs []string
	for _, src := range sources {
		if src = strings.TrimSpace(src); src != "" {
			srcs = append(srcs, src)
		}
	}

	sub := subscriber{
		ch:      make(chan string, messageBuffer),
		sources: srcs,
	}
	evt.subs[id] = sub

	return sub.ch
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subs, id)
	close(sub.ch)
	return nil
}

// Count returns the number of registered subscribers.
func (evt *Events) Count() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Send signals an event to every subscriber that wants it. Send will not
// block waiting for a receiver on any given channel.
func (evt *Events) Send(event string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, sub := range evt.subs {
		if !sub.wants(event) {
			continue
		}

		select {
		case sub.ch <- event:
		default:
		}
	}
}

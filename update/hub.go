package update

import (
	"sync"

	"github.com/techmaster-vietnam/goerrorkit"
)

// Subscription is the handle returned by Hub.Subscribe. Events arrive on C().
// A subscription that stops draining its channel loses events rather than
// blocking the hub.
type Subscription struct {
	appKey string
	ch     chan Event
}

// C returns the channel update events are delivered on. The channel is closed
// when the subscription is cancelled or the hub shuts down.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// AppKey returns the appKey this subscription is scoped to, or "" for a
// wildcard subscription receiving every app's events.
func (s *Subscription) AppKey() string {
	return s.appKey
}

// Hub routes update events to subscribers by appKey. Delivery is best-effort
// and synchronous on the caller's goroutine: a send never blocks and never
// fails the persistence operation that triggered it.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string][]*Subscription // appKey -> subscriptions, "" holds wildcards
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string][]*Subscription),
	}
}

// Subscribe registers a subscriber for events of one app. An empty appKey
// subscribes to every app. buffer is the channel capacity; events beyond it
// are dropped for this subscriber only.
func (h *Hub) Subscribe(appKey string, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}
	sub := &Subscription{
		appKey: appKey,
		ch:     make(chan Event, buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	h.subs[appKey] = append(h.subs[appKey], sub)
	return sub
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// twice.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.subs[sub.appKey]
	for i, s := range list {
		if s == sub {
			h.subs[sub.appKey] = append(list[:i], list[i+1:]...)
			close(sub.ch)
			return
		}
	}
}

// Send builds an update event from the payload and delivers it to every
// subscriber of the payload's app plus every wildcard subscriber. A payload
// whose owning app cannot be named is dropped with a logged warning; the
// caller's write has already succeeded and must not be affected.
func (h *Hub) Send(op Operation, kind ResourceKind, payload Keyed) {
	if payload == nil {
		goerrorkit.LogError(goerrorkit.NewBusinessError(500, "update event dropped: nil payload").WithData(map[string]interface{}{
			"operation": string(op),
			"kind":      string(kind),
		}), "")
		return
	}

	appKey := payload.GetAppKey()
	if appKey == "" {
		goerrorkit.LogError(goerrorkit.NewBusinessError(500, "update event dropped: owning app could not be resolved").WithData(map[string]interface{}{
			"operation": string(op),
			"kind":      string(kind),
		}), "")
		return
	}

	event := NewEvent(op, kind, appKey, payload)

	h.mu.RLock()
	targets := make([]*Subscription, 0, len(h.subs[appKey])+len(h.subs[""]))
	targets = append(targets, h.subs[appKey]...)
	targets = append(targets, h.subs[""]...)
	h.mu.RUnlock()

	for _, sub := range targets {
		h.deliver(sub, event)
	}
}

// deliver hands one event to one subscriber without blocking. A full buffer
// drops the event for that subscriber only; the rest still receive it.
func (h *Hub) deliver(sub *Subscription, event Event) {
	defer func() {
		// A concurrently closed channel must not take down the sender or
		// the remaining deliveries.
		if r := recover(); r != nil {
			goerrorkit.LogError(goerrorkit.NewBusinessError(500, "update event delivery panicked").WithData(map[string]interface{}{
				"appKey": sub.appKey,
				"event":  event.ID,
			}), "")
		}
	}()

	select {
	case sub.ch <- event:
	default:
		goerrorkit.LogError(goerrorkit.NewBusinessError(500, "update event dropped: subscriber buffer full").WithData(map[string]interface{}{
			"appKey": sub.appKey,
			"event":  event.ID,
			"kind":   string(event.Kind),
		}), "")
	}
}

// SubscriberCount reports how many subscriptions are registered for appKey.
func (h *Hub) SubscriberCount(appKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[appKey])
}

// Close closes every subscription channel and rejects further subscribes.
// Send on a closed hub is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for key, list := range h.subs {
		for _, sub := range list {
			close(sub.ch)
		}
		delete(h.subs, key)
	}
}

/*
 * @module service/event/broadcaster
 * @description In-process fan-out of dataset events to server-sent-event subscribers, so open
 *              dashboards can refresh after a reload
 * @architecture Observer - subscriber registry with buffered channels
 * @documentReference DESIGN.md
 * @stateFlow Subscribe -> Publish (non-blocking send) -> Unsubscribe (channel closed)
 * @rules A full subscriber buffer drops the event for that subscriber only
 * @dependencies sync, log/slog
 * @refs api/controllers/event_controller.go
 */

package event

import (
	"context"
	"log/slog"
	"sync"
)

const subscriberBuffer = 16

// Subscriber receives events until unsubscribed.
type Subscriber struct {
	ID       string
	ClientIP string
	Events   chan DatasetEvent
}

// Broadcaster is a Publisher delivering to SSE subscribers.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: make(map[string]*Subscriber)}
}

// Subscribe registers a subscriber under id.
func (b *Broadcaster) Subscribe(id, clientIP string) *Subscriber {
	sub := &Subscriber{
		ID:       id,
		ClientIP: clientIP,
		Events:   make(chan DatasetEvent, subscriberBuffer),
	}

	b.mu.Lock()
	if old, ok := b.subscribers[id]; ok {
		close(old.Events)
	}
	b.subscribers[id] = sub
	b.mu.Unlock()

	slog.Debug("sse subscriber added", "id", id, "client_ip", clientIP)
	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[id]; ok {
		close(sub.Events)
		delete(b.subscribers, id)
		slog.Debug("sse subscriber removed", "id", id)
	}
}

// Count returns the number of subscribers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish sends evt to every subscriber without blocking.
func (b *Broadcaster) Publish(_ context.Context, evt DatasetEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subscribers {
		select {
		case sub.Events <- evt:
		default:
			slog.Warn("sse subscriber buffer full, event dropped", "id", id, "type", evt.Type)
		}
	}
	return nil
}

// Close removes every subscriber.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subscribers {
		close(sub.Events)
		delete(b.subscribers, id)
	}
	return nil
}

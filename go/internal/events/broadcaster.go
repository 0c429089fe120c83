package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Broadcaster hands events to in-process subscribers such as websocket
// connections. Slow subscribers lose events rather than stall the publisher.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]chan Event
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uuid.UUID]chan Event)}
}

// Subscribe registers a subscriber with the given buffer. The returned
// cancel func unregisters it and closes the channel.
func (b *Broadcaster) Subscribe(buffer int) (uuid.UUID, <-chan Event, func()) {
	id := uuid.New()
	ch := make(chan Event, buffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return id, ch, cancel
}

// Subscribers is the number of registered subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broadcaster) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.Warn().Str("subscriber_id", id.String()).Str("event_type", string(ev.Type)).Msg("subscriber buffer full, dropping event")
		}
	}
	return nil
}

package server

import (
	"encoding/json"
	"sync"

	"github.com/emberquest/api/internal/game"
)

// Broker is an in-process pub/sub for SSE delivery of game effects,
// keyed by session token. A session's HUD/audio layer subscribes once
// and receives every effect the machine emits, regardless of whether
// the triggering request came over HTTP or the WebSocket stream.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded effects for
// the given session.
func (b *Broker) Subscribe(token string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[token] == nil {
		b.subs[token] = make(map[chan []byte]struct{})
	}
	b.subs[token][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the session's subscribers.
func (b *Broker) Unsubscribe(token string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[token], ch)
	if len(b.subs[token]) == 0 {
		delete(b.subs, token)
	}
	b.mu.Unlock()
}

// Publish sends each effect to all subscribers of the given session.
func (b *Broker) Publish(token string, effects []game.Effect) {
	if len(effects) == 0 {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, e := range effects {
		data, _ := json.Marshal(e)
		for ch := range b.subs[token] {
			select {
			case ch <- data:
			default:
				// Drop if subscriber is slow.
			}
		}
	}
}

package server

import (
	"encoding/json"
	"sync"
)

// Broker is an in-process pub/sub for room events, keyed by room code. Each
// subscriber channel belongs to one connection's writer goroutine.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

type subscriber struct {
	playerID string
	ch       chan []byte
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers a connection's outbound channel under a room.
func (b *Broker) Subscribe(roomCode, playerID string, ch chan []byte) *subscriber {
	sub := &subscriber{playerID: playerID, ch: ch}
	b.mu.Lock()
	if b.subs[roomCode] == nil {
		b.subs[roomCode] = make(map[*subscriber]struct{})
	}
	b.subs[roomCode][sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber from a room.
func (b *Broker) Unsubscribe(roomCode string, sub *subscriber) {
	b.mu.Lock()
	delete(b.subs[roomCode], sub)
	if len(b.subs[roomCode]) == 0 {
		delete(b.subs, roomCode)
	}
	b.mu.Unlock()
}

// Publish sends an event to every member of the room.
func (b *Broker) Publish(roomCode string, event any) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for sub := range b.subs[roomCode] {
		select {
		case sub.ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// SendTo delivers an event only to one player's connections.
func (b *Broker) SendTo(roomCode, playerID string, event any) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for sub := range b.subs[roomCode] {
		if sub.playerID != playerID {
			continue
		}
		select {
		case sub.ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}

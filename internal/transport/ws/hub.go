package ws

import (
	"sync"
)

type Conn interface {
	Send(msg Message) error
	Close() error
	Channel() string
}

// Hub — реестр подписчиков по каналам: "lobby" либо id комнаты.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[Conn]struct{} // channel -> set of connections
}

func NewHub() *Hub {
	return &Hub{channels: make(map[string]map[Conn]struct{})}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cs, ok := h.channels[c.Channel()]
	if !ok {
		cs = make(map[Conn]struct{})
		h.channels[c.Channel()] = cs
	}
	cs[c] = struct{}{}
}

func (h *Hub) Remove(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cs, ok := h.channels[c.Channel()]; ok {
		delete(cs, c)
		if len(cs) == 0 {
			delete(h.channels, c.Channel())
		}
	}
}

func (h *Hub) Broadcast(channel string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if cs, ok := h.channels[channel]; ok {
		for c := range cs {
			_ = c.Send(msg) // best-effort
		}
	}
}

// HasSubscribers — есть ли кому слать по каналу; чтобы не собирать
// снапшоты впустую.
func (h *Hub) HasSubscribers(channel string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.channels[channel]) > 0
}

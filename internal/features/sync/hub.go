package sync

import (
	stdsync "sync"
)

// Hub fans finished results out to live subscribers (the WebSocket feed).
// Slow subscribers miss results rather than block a pass.
type Hub struct {
	mu   stdsync.RWMutex
	subs map[chan *SyncResult]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan *SyncResult]struct{})}
}

// Subscribe returns a channel of results and a func that closes it.
func (h *Hub) Subscribe() (<-chan *SyncResult, func()) {
	ch := make(chan *SyncResult, 8)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once stdsync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Publish(result *SyncResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- result:
		default:
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

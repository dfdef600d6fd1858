package services

import (
	"encoding/json"
	"sync"

	"miimaker/internal/audio"
	"miimaker/types"
)

const (
	EventState    = "state"
	EventProgress = "progress"
)

// WSEvent is pushed to the page of one session or menu client. Sound and
// music events reuse the audio event type names.
type WSEvent struct {
	Type  string                 `json:"type"`
	State *types.SessionResponse `json:"state,omitempty"`
	Cue   *audio.Cue             `json:"cue,omitempty"`
	Track *audio.Track           `json:"track,omitempty"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*WSClient
}

func safeCloseBytes(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func NewHub() *Hub {
	return &Hub{
		clients: map[string]*WSClient{},
	}
}

func (h *Hub) Add(c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[c.id]; ok {
		old.close()
	}

	h.clients[c.id] = c
}

// Remove drops c only if it is still the registered client for its id, so a
// replaced connection cannot evict its successor.
func (h *Hub) Remove(c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.clients[c.id]; ok && cur == c {
		delete(h.clients, c.id)
		c.close()
	}
}

func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients {
		c.close()
	}
	h.clients = map[string]*WSClient{}
}

// SendTo queues event for clientId without blocking. The send happens under
// the read lock because Add, Remove and Shutdown close client channels under
// the write lock. A client whose queue is full is dropped.
func (h *Hub) SendTo(clientId string, event WSEvent) {
	b, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	c, ok := h.clients[clientId]
	full := false
	if ok {
		select {
		case c.send <- b:
		default:
			full = true
		}
	}
	h.mu.RUnlock()

	if full {
		h.Remove(c)
	}
}

// Sink routes soundtrack events for one client through the hub.
func (h *Hub) Sink(clientId string) audio.Sink {
	return audio.SinkFunc(func(e audio.Event) {
		h.SendTo(clientId, WSEvent{Type: e.Type, Cue: e.Cue, Track: e.Track})
	})
}

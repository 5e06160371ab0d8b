package web

import (
	"fmt"
	"net/http"
	"sync"
)

// BatchBus fans mirrored batches out to SSE clients and keeps a ring buffer
// of recent batches.
type BatchBus struct {
	mu       sync.RWMutex
	clients  map[chan []byte]struct{}
	ring     [][]byte
	ringSize int
	ringPos  int
	ringLen  int
}

// NewBatchBus creates a batch bus with the given ring buffer size.
func NewBatchBus(size int) *BatchBus {
	return &BatchBus{
		clients:  make(map[chan []byte]struct{}),
		ring:     make([][]byte, size),
		ringSize: size,
	}
}

// Publish adds a batch to the ring buffer and fans it out to all SSE clients.
func (bb *BatchBus) Publish(data []byte) {
	bb.mu.Lock()
	bb.ring[bb.ringPos] = append([]byte(nil), data...)
	bb.ringPos = (bb.ringPos + 1) % bb.ringSize
	if bb.ringLen < bb.ringSize {
		bb.ringLen++
	}
	clients := make([]chan []byte, 0, len(bb.clients))
	for ch := range bb.clients {
		clients = append(clients, ch)
	}
	bb.mu.Unlock()

	for _, ch := range clients {
		select {
		case ch <- data:
		default:
			// Drop batch for slow clients.
		}
	}
}

// Subscribe returns a channel that receives batches and an unsubscribe function.
func (bb *BatchBus) Subscribe() (chan []byte, func()) {
	ch := make(chan []byte, 64)
	bb.mu.Lock()
	bb.clients[ch] = struct{}{}
	bb.mu.Unlock()
	return ch, func() {
		bb.mu.Lock()
		delete(bb.clients, ch)
		bb.mu.Unlock()
	}
}

// Recent returns the ring buffer contents in chronological order.
func (bb *BatchBus) Recent() [][]byte {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	result := make([][]byte, 0, bb.ringLen)
	start := (bb.ringPos - bb.ringLen + bb.ringSize) % bb.ringSize
	for i := 0; i < bb.ringLen; i++ {
		idx := (start + i) % bb.ringSize
		if bb.ring[idx] != nil {
			result = append(result, bb.ring[idx])
		}
	}
	return result
}

// handleStream serves GET /ajax/stream: an SSE feed of batch envelopes as
// they are mirrored on the bus.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsub := s.batchBus.Subscribe()
	defer unsub()

	for {
		select {
		case data := <-ch:
			fmt.Fprintf(w, "event: batch\ndata: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

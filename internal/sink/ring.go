package sink

import (
	"io"
	"sync"
)

// Ring keeps the last N messages in memory (circular buffer).
type Ring struct {
	mu       sync.RWMutex
	messages []Message
	capacity int
	head     int  // next write position
	full     bool // has wrapped around
}

// DefaultRingSize is used when a non-positive capacity is requested.
const DefaultRingSize = 64

// NewRing creates a new Ring with the given capacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}

	return &Ring{
		messages: make([]Message, capacity),
		capacity: capacity,
	}
}

// Write stores a copy of msg, overwriting the oldest entry when full.
func (r *Ring) Write(msg *Message) {
	if msg == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *msg
	if stored.Seq == 0 {
		stored.Seq = NextSeq()
	}
	r.messages[r.head] = stored
	r.head = (r.head + 1) % r.capacity

	if r.head == 0 {
		r.full = true
	}
}

// Snapshot returns a copy of all stored messages in chronological order.
func (r *Ring) Snapshot() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		result := make([]Message, r.head)
		copy(result, r.messages[:r.head])
		return result
	}

	result := make([]Message, r.capacity)
	copy(result, r.messages[r.head:])
	copy(result[r.capacity-r.head:], r.messages[:r.head])
	return result
}

// Len returns the number of stored messages.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.full {
		return r.capacity
	}
	return r.head
}

// Reset drops every stored message.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.messages)
	r.head = 0
	r.full = false
}

// Dump writes all messages to w in the specified format.
func (r *Ring) Dump(w io.Writer, format Format) error {
	for _, msg := range r.Snapshot() {
		if _, err := w.Write(FormatMessage(&msg, format)); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op for Ring since everything is in memory.
func (r *Ring) Flush() error {
	return nil
}

// Close is a no-op for Ring.
func (r *Ring) Close() error {
	return nil
}

package sink

import (
	"time"

	"tripwire/internal/callstack"
	"tripwire/internal/location"
)

// Kind tells which primitive produced a message.
type Kind uint8

const (
	// KindTrace is an informational trace line.
	KindTrace Kind = iota + 1
	// KindAssert is a failed assertion.
	KindAssert
	// KindFatal is an unconditional fatal report.
	KindFatal
	KindStack // explicit call-stack dump
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindTrace:
		return "trace"
	case KindAssert:
		return "assert"
	case KindFatal:
		return "fatal"
	case KindStack:
		return "stack"
	default:
		return "unknown"
	}
}

// Message is a single rendered diagnostic.
type Message struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number, assigned on write
	GID      uint64            // goroutine that produced the message
	Kind     Kind              // producing primitive
	Location location.Location // call site
	Text     string            // condition text, trace line or fatal reason
	Stack    callstack.Stack   // fatal and stack messages only
	Tail     []string          // recent trace lines attached to fatal reports
}

// NewMessage stamps a message with the current time and goroutine.
func NewMessage(kind Kind, loc location.Location, text string) *Message {
	return &Message{
		Time:     time.Now(),
		GID:      goroutineID(),
		Kind:     kind,
		Location: loc,
		Text:     text,
	}
}

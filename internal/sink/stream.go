package sink

import (
	"io"
	"sync"
)

// Stream writes messages immediately to an io.Writer.
type Stream struct {
	mu      sync.Mutex
	w       io.Writer
	format  Format
	palette *palette
}

// NewStream creates a new Stream. colorize only affects FormatText.
func NewStream(w io.Writer, format Format, colorize bool) *Stream {
	s := &Stream{w: w, format: format}
	if colorize && format == FormatText {
		s.palette = newPalette()
	}
	return s
}

// Write renders msg and writes it with a single Write call while holding the
// lock, so concurrent messages never interleave.
func (s *Stream) Write(msg *Message) {
	if msg == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Seq == 0 {
		msg.Seq = NextSeq()
	}
	data := formatMessage(msg, s.format, s.palette)

	// write errors are dropped
	_, _ = s.w.Write(data)
}

// Flush flushes the writer if it supports it.
func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch f := s.w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case interface{ Sync() error }:
		// stderr/stdout may refuse fsync; that is not a sink failure
		_ = f.Sync()
	}
	return nil
}

// Close flushes and closes the writer if it implements io.Closer.
// The process standard streams are never closed.
func (s *Stream) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if isStdStream(s.w) {
		return nil
	}
	if closer, ok := s.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Colorized reports whether text output carries color escapes.
func (s *Stream) Colorized() bool { return s.palette != nil }

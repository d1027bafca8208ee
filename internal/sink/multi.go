package sink

// Multi fans out messages to multiple sinks.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a Multi that writes to all provided sinks. Nil sinks are
// skipped.
func NewMulti(sinks ...Sink) *Multi {
	m := &Multi{sinks: make([]Sink, 0, len(sinks))}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Write sends the message to all underlying sinks.
func (m *Multi) Write(msg *Message) {
	if msg == nil {
		return
	}
	if msg.Seq == 0 {
		msg.Seq = NextSeq()
	}
	for _, s := range m.sinks {
		s.Write(msg)
	}
}

// Flush flushes all underlying sinks.
func (m *Multi) Flush() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes all underlying sinks.
func (m *Multi) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

package sink

// nopSink discards everything.
type nopSink struct{}

func (nopSink) Write(*Message) {}

func (nopSink) Flush() error { return nil }

func (nopSink) Close() error { return nil }

// Nop is the package-level singleton discarding sink.
var Nop Sink = nopSink{}

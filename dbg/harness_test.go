package dbg

import (
	"bytes"
	"sync/atomic"
	"testing"

	"tripwire/internal/debugger"
	"tripwire/internal/engine"
	"tripwire/internal/sink"
	"tripwire/internal/trap"
)

type harness struct {
	out    bytes.Buffer
	ring   *sink.Ring
	breaks atomic.Int32
	exits  atomic.Int32
}

// install replaces the process-wide engine for the duration of the test.
func install(t *testing.T, attached bool) *harness {
	t.Helper()
	h := &harness{ring: sink.NewRing(32)}
	e := engine.New(engine.Options{
		Sink: sink.NewMulti(sink.NewStream(&h.out, sink.FormatText, false), h.ring),
		Trap: trap.New(debugger.Static(attached),
			trap.WithBreak(func() { h.breaks.Add(1) }),
			trap.WithExit(func(int) { h.exits.Add(1) }),
		),
	})
	t.Cleanup(Use(e))
	return h
}

func (h *harness) messages() []sink.Message { return h.ring.Snapshot() }

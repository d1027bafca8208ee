// Package engine implements the assertion, trace and fatal-report
// primitives on top of a sink, a trap controller and a stack capturer.
//
// The engine itself is mode-agnostic; package dbg decides at build time which
// of its operations are compiled into a program.
package engine

import (
	"reflect"

	"tripwire/internal/callstack"
	"tripwire/internal/debugger"
	"tripwire/internal/kind"
	"tripwire/internal/location"
	"tripwire/internal/sink"
	"tripwire/internal/tmpl"
	"tripwire/internal/trap"
)

// AssertionFailed is the text used when no condition text is available.
const AssertionFailed = "assertion failed"

// Options holds the collaborators of an Engine. Nil fields get defaults:
// the process-wide sink, a trap controller on the OS debugger detector,
// runtime stack capture and reflect-based kind checks.
type Options struct {
	Sink     sink.Sink
	Trap     *trap.Controller
	Stack    callstack.Capturer
	Kinds    kind.Checker
	MaxWidth int // display cells per message text, 0 for unlimited
}

// Engine evaluates checks and reports diagnostics. It is immutable after New
// and safe for concurrent use.
type Engine struct {
	sink     sink.Sink
	trap     *trap.Controller
	stack    callstack.Capturer
	kinds    kind.Checker
	maxWidth int
	tail     *sink.Ring
}

// New creates an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		sink:     opts.Sink,
		trap:     opts.Trap,
		stack:    opts.Stack,
		kinds:    opts.Kinds,
		maxWidth: opts.MaxWidth,
	}
	if e.sink == nil {
		e.sink = sink.Default()
	}
	if e.trap == nil {
		e.trap = trap.New(debugger.OS)
	}
	if e.stack == nil {
		e.stack = callstack.Runtime{}
	}
	if e.kinds == nil {
		e.kinds = kind.Reflect{}
	}
	e.tail = sink.RingOf(e.sink)
	return e
}

// Sink returns the engine's sink.
func (e *Engine) Sink() sink.Sink { return e.sink }

// Trap returns the engine's trap controller.
func (e *Engine) Trap() *trap.Controller { return e.trap }

// Kinds returns the engine's kind checker.
func (e *Engine) Kinds() kind.Checker { return e.kinds }

// Evaluate checks condition. When it is false the condition text, loc and the
// call stack starting at the caller of Evaluate are written to the sink and
// the trap controller decides between a breakpoint and termination. A true
// condition touches neither and returns the zero Decision.
func (e *Engine) Evaluate(condition bool, conditionText string, loc location.Location) trap.Decision {
	return e.evaluate(1, condition, conditionText, loc)
}

// EvaluateSkip is Evaluate with skip extra frames dropped from the top of the
// captured stack.
func (e *Engine) EvaluateSkip(skip int, condition bool, conditionText string, loc location.Location) trap.Decision {
	return e.evaluate(skip+1, condition, conditionText, loc)
}

func (e *Engine) evaluate(skip int, condition bool, conditionText string, loc location.Location) trap.Decision {
	if condition {
		return trap.Decision{}
	}

	text := tmpl.Sanitize(tmpl.Collapse(conditionText), e.maxWidth)
	if text == "" {
		text = AssertionFailed
	}
	msg := sink.NewMessage(sink.KindAssert, loc, text)
	msg.Stack = e.capture(skip + 1)
	e.sink.Write(msg)
	return e.trap.BreakOrTerminate()
}

// Trace renders template with args and writes it to the sink. It never traps
// and never fails: mismatched templates degrade to literal text.
func (e *Engine) Trace(template string, args []tmpl.Arg, loc location.Location) {
	text := tmpl.Sanitize(tmpl.Render(template, args...), e.maxWidth)
	e.sink.Write(sink.NewMessage(sink.KindTrace, loc, text))
}

// Report writes reason, loc, the current call stack and any recent traces to
// the sink, then hands over to the trap controller. The stack starts at the
// caller of Report.
func (e *Engine) Report(reason string, loc location.Location) trap.Decision {
	return e.report(1, reason, loc)
}

// ReportSkip is Report with skip extra frames dropped from the top of the
// captured stack, for wrappers that should not appear in it.
func (e *Engine) ReportSkip(skip int, reason string, loc location.Location) trap.Decision {
	return e.report(skip+1, reason, loc)
}

func (e *Engine) report(skip int, reason string, loc location.Location) trap.Decision {
	msg := sink.NewMessage(sink.KindFatal, loc, tmpl.Sanitize(reason, e.maxWidth))
	msg.Stack = e.capture(skip + 1)
	msg.Tail = e.recentTraces()
	e.sink.Write(msg)
	return e.trap.BreakOrTerminate()
}

// PrintStack writes the caller's stack to the sink without trapping.
func (e *Engine) PrintStack(skip int, loc location.Location) {
	msg := sink.NewMessage(sink.KindStack, loc, "call stack")
	msg.Stack = e.capture(skip + 1)
	e.sink.Write(msg)
}

// capture asks the capturer for a stack starting skip frames above its
// caller. A panicking capturer yields an empty stack.
func (e *Engine) capture(skip int) (st callstack.Stack) {
	defer func() {
		if recover() != nil {
			st = nil
		}
	}()
	return e.stack.Capture(skip + 1)
}

func (e *Engine) recentTraces() []string {
	if e.tail == nil {
		return nil
	}
	var lines []string
	for _, m := range e.tail.Snapshot() {
		if m.Kind == sink.KindTrace {
			lines = append(lines, m.Location.String()+" "+m.Text)
		}
	}
	return lines
}

// CheckKind asserts that v is usable as a value of type t.
func (e *Engine) CheckKind(v any, t reflect.Type, expr string, loc location.Location) trap.Decision {
	return e.evaluate(1, e.kinds.Is(v, t), KindText(expr, t), loc)
}

// CheckKindOrAbsent asserts that v is nil or usable as a value of type t.
func (e *Engine) CheckKindOrAbsent(v any, t reflect.Type, expr string, loc location.Location) trap.Decision {
	cond := e.kinds.Absent(v) || e.kinds.Is(v, t)
	return e.evaluate(1, cond, KindOrAbsentText(expr, t), loc)
}

// CheckConformance asserts that v implements the interface type iface.
func (e *Engine) CheckConformance(v any, iface reflect.Type, expr string, loc location.Location) trap.Decision {
	return e.evaluate(1, e.kinds.Conforms(v, iface), ConformanceText(expr, iface), loc)
}

// KindText is the condition text reported by CheckKind.
func KindText(expr string, t reflect.Type) string {
	return "kind of " + expr + " is " + kind.Name(t)
}

// KindOrAbsentText is the condition text reported by CheckKindOrAbsent.
func KindOrAbsentText(expr string, t reflect.Type) string {
	return expr + " is nil or kind " + kind.Name(t)
}

// ConformanceText is the condition text reported by CheckConformance.
func ConformanceText(expr string, iface reflect.Type) string {
	return expr + " conforms to " + kind.Name(iface)
}

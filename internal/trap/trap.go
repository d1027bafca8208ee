// Package trap turns a failed check into either a debugger breakpoint or
// process termination.
//
// When a debugger is attached, [Controller.BreakOrTerminate] raises a
// breakpoint on the calling thread and returns [Resumed] once the debugger
// continues. Otherwise it terminates the process with a failure status and
// never returns.
package trap

import (
	"os"
	"runtime"
	"sync"

	"tripwire/internal/debugger"
)

// Outcome is the result of a trap attempt.
type Outcome uint8

const (
	// None means no trap was attempted.
	None Outcome = iota
	// Resumed means a debugger stepped past the breakpoint.
	Resumed
	// Terminated means the process was asked to exit.
	Terminated
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	switch o {
	case None:
		return "none"
	case Resumed:
		return "resumed"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Decision is returned by BreakOrTerminate.
// ExitCode is only meaningful when Outcome is Terminated.
type Decision struct {
	Outcome  Outcome
	ExitCode int
}

// DefaultExitCode is used when no positive exit code is configured.
const DefaultExitCode = 1

// Controller decides between a breakpoint and termination.
// It is safe for concurrent use.
type Controller struct {
	detector   debugger.Detector
	brk        func()
	exit       func(code int)
	beforeExit func()
	exitCode   int

	exitOnce sync.Once
}

// Option configures a Controller.
type Option func(*Controller)

// WithBreak replaces the breakpoint function (runtime.Breakpoint by default).
func WithBreak(fn func()) Option {
	return func(c *Controller) {
		if fn != nil {
			c.brk = fn
		}
	}
}

// WithExit replaces the exit function (os.Exit by default).
func WithExit(fn func(code int)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.exit = fn
		}
	}
}

// WithExitCode sets the failure status. Values <= 0 fall back to
// DefaultExitCode: termination always reports failure.
func WithExitCode(code int) Option {
	return func(c *Controller) {
		c.exitCode = code
	}
}

// WithDetector replaces the detector passed to New.
func WithDetector(d debugger.Detector) Option {
	return func(c *Controller) {
		if d != nil {
			c.detector = d
		}
	}
}

// WithBeforeExit registers a hook run right before the process exits,
// typically flushing the diagnostic sink.
func WithBeforeExit(fn func()) Option {
	return func(c *Controller) {
		c.beforeExit = fn
	}
}

// New creates a Controller. A nil detector is treated as "never attached".
func New(d debugger.Detector, opts ...Option) *Controller {
	if d == nil {
		d = debugger.Static(false)
	}
	c := &Controller{
		detector: d,
		brk:      runtime.Breakpoint,
		exit:     os.Exit,
		exitCode: DefaultExitCode,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exitCode <= 0 {
		c.exitCode = DefaultExitCode
	}
	return c
}

// ExitCode returns the configured failure status.
func (c *Controller) ExitCode() int { return c.exitCode }

// BreakOrTerminate raises a breakpoint when a debugger is attached and
// returns Resumed after the debugger continues. Without a debugger it exits
// the process with the failure status; the first terminating goroutine wins
// and the others block until the process is gone.
func (c *Controller) BreakOrTerminate() Decision {
	if c.detector.Attached() {
		c.brk()
		return Decision{Outcome: Resumed}
	}

	c.exitOnce.Do(func() {
		if c.beforeExit != nil {
			c.beforeExit()
		}
		c.exit(c.exitCode)
	})
	// only reachable when exit was replaced by a function that returns
	return Decision{Outcome: Terminated, ExitCode: c.exitCode}
}

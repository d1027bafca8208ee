// Package dbg is the public face of tripwire: assertions, traces and fatal
// reports that stop under a debugger and terminate without one.
//
// Assert, Assertf, Trace and the type guards exist only in binaries built
// with the "debug" tag; in the default build they are empty and inline away.
// Die, Dief and PrintCallStack are active in every build.
//
// The process-wide engine is configured on first use from defaults, the TOML
// file named by TRIPWIRE_CONFIG and TRIPWIRE_* environment variables.
package dbg

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"tripwire/internal/config"
	"tripwire/internal/engine"
	"tripwire/internal/location"
	"tripwire/internal/sink"
	"tripwire/internal/tmpl"
	"tripwire/internal/trap"
)

// BuildMode is the diagnostic mode the binary was compiled in.
type BuildMode uint8

const (
	Release BuildMode = iota
	Debug
)

// String returns the string representation of BuildMode.
func (m BuildMode) String() string {
	switch m {
	case Debug:
		return "debug"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Mode returns the mode selected at build time.
func Mode() BuildMode { return mode }

// Decision reports what happened after a failed check.
type Decision = trap.Decision

// Outcome values of a Decision.
const (
	None       = trap.None
	Resumed    = trap.Resumed
	Terminated = trap.Terminated
)

// Arg is a typed trace argument.
type Arg = tmpl.Arg

// Int wraps a signed integer.
func Int[T tmpl.Signed](v T) Arg { return tmpl.Int(v) }

// Uint wraps an unsigned integer.
func Uint[T tmpl.Unsigned](v T) Arg { return tmpl.Uint(v) }

// Float wraps a floating point number.
func Float[T tmpl.Floating](v T) Arg { return tmpl.Float(v) }

// Str wraps a string.
func Str(s string) Arg { return tmpl.Str(s) }

// Bool wraps a boolean.
func Bool(b bool) Arg { return tmpl.Bool(b) }

// Err wraps an error.
func Err(err error) Arg { return tmpl.Err(err) }

// Stringer wraps a value rendered through its String method.
func Stringer(s fmt.Stringer) Arg { return tmpl.Stringer(s) }

// Any wraps an arbitrary value; only %v accepts it.
func Any(v any) Arg { return tmpl.Any(v) }

var (
	override   atomic.Pointer[engine.Engine]
	configured *engine.Engine
	setupOnce  sync.Once
)

// Engine returns the process-wide engine. Unless one was installed with Use,
// it is configured on first call; configuration errors are reported once on
// stderr and the defaults are used.
func Engine() *engine.Engine {
	if e := override.Load(); e != nil {
		return e
	}
	setupOnce.Do(setup)
	return configured
}

func setup() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tripwire: %v; using defaults\n", err)
		cfg = config.Default()
	}
	e, err := engine.FromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tripwire: %v; writing to stderr\n", err)
		e, _ = engine.FromConfig(config.Default())
	}
	sink.SetDefault(e.Sink())
	configured = e
}

// Use installs e as the process-wide engine and returns a function that
// restores the previous one. A nil e removes the override.
func Use(e *engine.Engine) (restore func()) {
	prev := override.Swap(e)
	return func() { override.Store(prev) }
}

// Die reports reason with the current call stack and traps. Without a
// debugger the process exits; with one, Die returns after it resumes.
func Die(reason string) Decision {
	return Engine().ReportSkip(1, reason, location.Caller(1))
}

// Dief is Die with a reason rendered from a trace template.
func Dief(template string, args ...Arg) Decision {
	return Engine().ReportSkip(1, tmpl.Render(template, args...), location.Caller(1))
}

// PrintCallStack writes the caller's stack to the diagnostic sink.
func PrintCallStack() {
	Engine().PrintStack(1, location.Caller(1))
}

// StringOrEmpty returns v when it is a string and "" otherwise.
func StringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}

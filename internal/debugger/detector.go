// Package debugger answers whether a debugger is attached to the running
// process.
//
// The answer comes from process-level state queried on every call: a debugger
// may attach or detach while the program runs, so callers must not cache it.
// Platforms without a supported query report false.
package debugger

// Detector reports whether a debugger is attached right now.
// Implementations must be safe for concurrent use.
type Detector interface {
	Attached() bool
}

// Func adapts a plain function to Detector.
type Func func() bool

// Attached calls f. A nil Func reports false.
func (f Func) Attached() bool {
	if f == nil {
		return false
	}
	return f()
}

// Static is a fixed answer, used as a deterministic test double.
type Static bool

// Attached returns the fixed answer.
func (s Static) Attached() bool { return bool(s) }

type osDetector struct{}

// Attached queries the operating system.
func (osDetector) Attached() bool { return attached() }

// OS is the process-level detector for the current platform.
var OS Detector = osDetector{}

// IsAttached queries OS once.
func IsAttached() bool { return OS.Attached() }

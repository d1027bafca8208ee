// Package callstack captures the goroutine's call stack for fatal reports.
//
// Capture is a capability: [Runtime] walks the Go stack, [None] models a
// platform without capture support. An empty [Stack] is a valid result and
// never an error.
package callstack

import (
	"runtime"
	"strconv"
	"strings"

	"tripwire/internal/location"
)

// Frame is one entry of a captured stack.
type Frame struct {
	Function string `json:"function" msgpack:"function"`
	File     string `json:"file" msgpack:"file"`
	Line     int    `json:"line" msgpack:"line"`
}

// Stack is an ordered list of frames, innermost first.
type Stack []Frame

// Capturer takes a snapshot of the current call stack. skip counts frames
// above the caller of Capture, the same way runtime.Callers does.
type Capturer interface {
	Capture(skip int) Stack
}

// CapturerFunc adapts a function to Capturer.
type CapturerFunc func(skip int) Stack

// Capture calls f.
func (f CapturerFunc) Capture(skip int) Stack { return f(skip) }

// DefaultDepth bounds the number of frames Runtime records.
const DefaultDepth = 64

// Runtime captures frames with runtime.Callers.
type Runtime struct {
	Depth int // max frames (DefaultDepth when <= 0)
}

// Capture implements Capturer.
func (r Runtime) Capture(skip int) Stack {
	depth := r.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	pcs := make([]uintptr, depth)
	// +2: runtime.Callers and Capture itself
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make(Stack, 0, n)
	for {
		fr, more := frames.Next()
		if fr.Function != "" || fr.File != "" {
			out = append(out, Frame{
				Function: location.ShortFunc(fr.Function),
				File:     fr.File,
				Line:     fr.Line,
			})
		}
		if !more {
			break
		}
	}
	return out
}

// None never captures anything.
type None struct{}

// Capture implements Capturer.
func (None) Capture(int) Stack { return nil }

// Unavailable is printed in place of an empty stack.
const Unavailable = "(call stack unavailable)"

// String renders one frame per line, indented by two spaces.
func (s Stack) String() string {
	if len(s) == 0 {
		return "  " + Unavailable + "\n"
	}
	var sb strings.Builder
	for i, fr := range s {
		sb.WriteString("  ")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString("  ")
		fn := fr.Function
		if fn == "" {
			fn = "???"
		}
		sb.WriteString(fn)
		sb.WriteString("\n        ")
		sb.WriteString(fr.File)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(fr.Line))
		sb.WriteByte('\n')
	}
	return sb.String()
}

package sink

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Sink receives rendered diagnostics.
type Sink interface {
	// Write records a message. Must be goroutine-safe and must write the
	// message as one unit with respect to other writers.
	Write(msg *Message)

	// Flush ensures all buffered messages are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error
}

// ColorMode selects when text output is colorized.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota // color when the output is a terminal
	ColorOn
	ColorOff
)

// String returns the string representation of ColorMode.
func (m ColorMode) String() string {
	switch m {
	case ColorAuto:
		return "auto"
	case ColorOn:
		return "on"
	case ColorOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseColorMode converts a string to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "on", "always", "true":
		return ColorOn, nil
	case "off", "never", "false":
		return ColorOff, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode: %q (expected: auto|on|off)", s)
	}
}

// Options holds sink configuration.
type Options struct {
	Format     Format    // output format
	Color      ColorMode // text colorization
	Output     io.Writer // destination (if nil, use OutputPath)
	OutputPath string    // "-" or "" for stderr, "stdout", or a file path
	RingSize   int       // when > 0, also keep the last RingSize messages in memory
}

// New creates a Sink from Options. When RingSize is positive the result also
// retains recent messages; use RingOf to reach them.
func New(opts Options) (Sink, error) {
	w, err := openOutput(opts)
	if err != nil {
		return nil, err
	}

	stream := NewStream(w, opts.Format, useColor(opts.Color, w))
	if opts.RingSize <= 0 {
		return stream, nil
	}
	return NewMulti(stream, NewRing(opts.RingSize)), nil
}

// openOutput opens the output writer from options.
func openOutput(opts Options) (io.Writer, error) {
	if opts.Output != nil {
		return opts.Output, nil
	}

	switch opts.OutputPath {
	case "", "-", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	f, err := os.OpenFile(opts.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open sink output: %w", err)
	}
	return f, nil
}

func useColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorOn:
		return true
	case ColorOff:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// RingOf returns the first Ring reachable from s, or nil.
func RingOf(s Sink) *Ring {
	switch v := s.(type) {
	case *Ring:
		return v
	case *Multi:
		for _, inner := range v.sinks {
			if r := RingOf(inner); r != nil {
				return r
			}
		}
	}
	return nil
}

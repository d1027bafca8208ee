package location

import (
	"runtime"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Location identifies a call site: file path, line number and function name.
// It is captured once and never mutated afterwards.
type Location struct {
	File     string
	Line     int
	Function string
}

// Unknown is rendered for call sites that could not be resolved.
var Unknown = Location{File: "???", Function: "???"}

// New builds a Location, normalizing out-of-range line numbers to 0.
func New(file string, line int, function string) Location {
	return Location{File: file, Line: clampLine(line), Function: function}
}

// Caller captures the location of the function skip frames above the caller
// of Caller. Caller(0) returns the location of the code calling Caller.
func Caller(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Unknown
	}
	fn := "???"
	if f := runtime.FuncForPC(pc); f != nil {
		fn = ShortFunc(f.Name())
	}
	return New(file, line, fn)
}

// ShortFunc trims the import path from a fully qualified function name:
// "example.com/app/worker.(*Pool).run" becomes "worker.(*Pool).run".
func ShortFunc(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Function == ""
}

// String renders "<file>:<line>:1 [<function>]".
func (l Location) String() string {
	file := l.File
	if file == "" {
		file = Unknown.File
	}
	fn := l.Function
	if fn == "" {
		fn = Unknown.Function
	}

	var sb strings.Builder
	sb.Grow(len(file) + len(fn) + 16)
	sb.WriteString(file)
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(clampLine(l.Line)))
	sb.WriteString(":1 [")
	sb.WriteString(fn)
	sb.WriteByte(']')
	return sb.String()
}

// clampLine keeps line numbers inside the uint32 range understood by editors;
// anything outside renders as 0 (unknown).
func clampLine(line int) int {
	v, err := safecast.Conv[uint32](line)
	if err != nil {
		return 0
	}
	return int(v)
}

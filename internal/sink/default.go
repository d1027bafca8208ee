package sink

import (
	"io"
	"os"
	"sync"
)

var (
	defaultMu   sync.RWMutex
	defaultSink Sink
)

// Default returns the process-wide sink. Unless replaced with SetDefault it
// is a text Stream on stderr, created on first use and never torn down.
func Default() Sink {
	defaultMu.RLock()
	s := defaultSink
	defaultMu.RUnlock()
	if s != nil {
		return s
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSink == nil {
		defaultSink = NewStream(os.Stderr, FormatText, useColor(ColorAuto, os.Stderr))
	}
	return defaultSink
}

// SetDefault replaces the process-wide sink and returns the previous one
// (nil if none was created yet). Setting nil brings back the stderr stream
// on the next call to Default.
func SetDefault(s Sink) Sink {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultSink
	defaultSink = s
	return prev
}

func isStdStream(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return f == os.Stdout || f == os.Stderr
}

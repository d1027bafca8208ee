//go:build debug

package dbg

import "tripwire/internal/location"

// Trace writes a message rendered from template and args to the diagnostic
// sink. A template that does not match its arguments is written verbatim
// with a note instead of failing.
func Trace(template string, args ...Arg) {
	Engine().Trace(template, args, location.Caller(1))
}

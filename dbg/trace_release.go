//go:build !debug

package dbg

// Trace writes a message rendered from template and args to the diagnostic
// sink. A template that does not match its arguments is written verbatim
// with a note instead of failing.
func Trace(string, ...Arg) {}

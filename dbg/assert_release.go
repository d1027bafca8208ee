//go:build !debug

package dbg

// Assert traps when cond is false. The message carries the source text of
// the cond argument as written at the call site, followed by the call stack.
// Call sites are known by line only, so when one line holds several Assert
// calls every failure there reports the text of the first.
func Assert(bool) Decision { return Decision{} }

// Assertf traps when cond is false, reporting text as the condition.
func Assertf(bool, string) Decision { return Decision{} }

// CheckKind asserts that v holds a value usable as a T.
func CheckKind[T any](any) Decision { return Decision{} }

// CheckKindOrAbsent asserts that v is nil or holds a value usable as a T.
func CheckKindOrAbsent[T any](any) Decision { return Decision{} }

// CheckProtocol asserts that x implements the interface I.
func CheckProtocol[I any](any) Decision { return Decision{} }

//go:build debug

package dbg

import (
	"tripwire/internal/engine"
	"tripwire/internal/kind"
	"tripwire/internal/location"
)

// Assert traps when cond is false. The message carries the source text of
// the cond argument as written at the call site, followed by the call stack.
// Call sites are known by line only, so when one line holds several Assert
// calls every failure there reports the text of the first.
func Assert(cond bool) Decision {
	if cond {
		return Decision{}
	}
	loc := location.Caller(1)
	text, _ := location.ArgText(loc, "Assert", 0)
	return Engine().EvaluateSkip(1, false, text, loc)
}

// Assertf traps when cond is false, reporting text as the condition.
func Assertf(cond bool, text string) Decision {
	if cond {
		return Decision{}
	}
	return Engine().EvaluateSkip(1, false, text, location.Caller(1))
}

// CheckKind asserts that v holds a value usable as a T.
func CheckKind[T any](v any) Decision {
	e := Engine()
	t := kind.Of[T]()
	if e.Kinds().Is(v, t) {
		return Decision{}
	}
	loc := location.Caller(1)
	return e.EvaluateSkip(1, false, engine.KindText(exprAt(loc, "CheckKind"), t), loc)
}

// CheckKindOrAbsent asserts that v is nil or holds a value usable as a T.
func CheckKindOrAbsent[T any](v any) Decision {
	e := Engine()
	t := kind.Of[T]()
	if e.Kinds().Absent(v) || e.Kinds().Is(v, t) {
		return Decision{}
	}
	loc := location.Caller(1)
	return e.EvaluateSkip(1, false, engine.KindOrAbsentText(exprAt(loc, "CheckKindOrAbsent"), t), loc)
}

// CheckProtocol asserts that x implements the interface I.
func CheckProtocol[I any](x any) Decision {
	e := Engine()
	t := kind.Of[I]()
	if e.Kinds().Conforms(x, t) {
		return Decision{}
	}
	loc := location.Caller(1)
	return e.EvaluateSkip(1, false, engine.ConformanceText(exprAt(loc, "CheckProtocol"), t), loc)
}

func exprAt(loc location.Location, callee string) string {
	if text, ok := location.ArgText(loc, callee, 0); ok {
		return text
	}
	return "value"
}

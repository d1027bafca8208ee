package tmpl

import "fmt"

// ArgKind classifies a trace argument for template validation.
type ArgKind uint8

const (
	KindInt ArgKind = iota + 1
	KindUint
	KindFloat
	KindString
	KindBool
	KindError
	KindStringer
	KindAny
)

// String returns the string representation of ArgKind.
func (k ArgKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindError:
		return "error"
	case KindStringer:
		return "stringer"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// Arg is one typed value for a trace template.
type Arg struct {
	kind ArgKind
	val  any
}

// Signed, Unsigned and Floating constrain the numeric constructors.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Floating interface {
	~float32 | ~float64
}

// Int wraps a signed integer.
func Int[T Signed](v T) Arg { return Arg{kind: KindInt, val: int64(v)} }

// Uint wraps an unsigned integer.
func Uint[T Unsigned](v T) Arg { return Arg{kind: KindUint, val: uint64(v)} }

// Float wraps a floating point number.
func Float[T Floating](v T) Arg { return Arg{kind: KindFloat, val: float64(v)} }

// Str wraps a string.
func Str(s string) Arg { return Arg{kind: KindString, val: s} }

// Bool wraps a boolean.
func Bool(b bool) Arg { return Arg{kind: KindBool, val: b} }

// Err wraps an error. A nil error renders as "<nil>".
func Err(err error) Arg {
	if err == nil {
		return Arg{kind: KindString, val: "<nil>"}
	}
	return Arg{kind: KindError, val: err}
}

// Stringer wraps a fmt.Stringer.
func Stringer(s fmt.Stringer) Arg { return Arg{kind: KindStringer, val: s} }

// Any wraps an arbitrary value; it is only accepted by %v.
func Any(v any) Arg { return Arg{kind: KindAny, val: v} }

// Kind returns the argument's kind.
func (a Arg) Kind() ArgKind { return a.kind }

// Value returns the wrapped value.
func (a Arg) Value() any { return a.val }

// String renders the value with %v.
func (a Arg) String() string { return fmt.Sprintf("%v", a.val) }

// Package kind answers type questions for the type-guard assertions.
package kind

import "reflect"

// Checker is the type predicate capability used by the guard helpers.
type Checker interface {
	// Is reports whether v is usable as a value of type t.
	Is(v any, t reflect.Type) bool
	// Absent reports whether v is nil, including typed nils.
	Absent(v any) bool
	// Conforms reports whether v implements the interface type iface.
	Conforms(v any, iface reflect.Type) bool
}

// Of returns the reflect.Type of T, including interface types.
func Of[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Reflect is the default Checker built on package reflect.
type Reflect struct{}

// Is reports whether v's dynamic type is assignable to t: a concrete type
// matches itself, and an interface type matches every implementation.
func (Reflect) Is(v any, t reflect.Type) bool {
	if v == nil || t == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t)
}

// Absent reports whether value is nil, including typed-nil interfaces.
func (Reflect) Absent(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Conforms reports whether v implements iface. It is false when iface is
// not an interface type.
func (Reflect) Conforms(v any, iface reflect.Type) bool {
	if v == nil || iface == nil || iface.Kind() != reflect.Interface {
		return false
	}
	return reflect.TypeOf(v).Implements(iface)
}

// Name renders t for condition texts; nil renders as "<nil>".
func Name(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

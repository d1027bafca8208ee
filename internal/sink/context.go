package sink

import "context"

// ctxKey is the key type for storing a Sink in context.
type ctxKey struct{}

// FromContext extracts the Sink from context.
// If not found, returns Default().
func FromContext(ctx context.Context) Sink {
	if ctx == nil {
		return Default()
	}
	if s, ok := ctx.Value(ctxKey{}).(Sink); ok {
		return s
	}
	return Default()
}

// WithSink attaches a Sink to context.
func WithSink(ctx context.Context, s Sink) context.Context {
	if s == nil {
		s = Nop
	}
	return context.WithValue(ctx, ctxKey{}, s)
}

// Package callback holds a single completion handler behind a generic box.
package callback

// Box stores one func(T). The function is fixed at construction.
type Box[T any] struct {
	fn func(T)
}

// NewBox returns a Box holding fn. A nil fn makes Invoke a no-op.
func NewBox[T any](fn func(T)) *Box[T] {
	if fn == nil {
		fn = func(T) {}
	}
	return &Box[T]{fn: fn}
}

// Invoke calls the held function synchronously on the calling goroutine.
func (b *Box[T]) Invoke(v T) {
	b.fn(v)
}

// Func returns the held function so it can be handed off as a completion
// handler without wrapping.
func (b *Box[T]) Func() func(T) {
	return b.fn
}

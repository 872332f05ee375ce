package stage

// Take emits the first n elements and then finishes. A non-positive n
// finishes on the first element without emitting anything.
type Take[T any] struct {
	Base[T]
	left int
}

// NewTake creates a Take stage.
func NewTake[T any](n int) *Take[T] {
	return &Take[T]{left: max(n, 0)}
}

func (s *Take[T]) OnPush(elem T, ctx Context[T]) Directive {
	s.left--
	switch {
	case s.left > 0:
		return ctx.Push(elem)
	case s.left == 0:
		return ctx.PushAndFinish(elem)
	default:
		return ctx.Finish()
	}
}

// Drop discards the first n elements and passes the rest unchanged.
type Drop[T any] struct {
	Base[T]
	left int
}

// NewDrop creates a Drop stage.
func NewDrop[T any](n int) *Drop[T] {
	return &Drop[T]{left: n}
}

func (s *Drop[T]) OnPush(elem T, ctx Context[T]) Directive {
	if s.left > 0 {
		s.left--
		return ctx.Pull()
	}
	return ctx.Push(elem)
}

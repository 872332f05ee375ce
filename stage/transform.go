package stage

// Map applies f to every element.
type Map[In, Out any] struct {
	Base[Out]
	f func(In) (Out, error)
}

// NewMap creates a Map stage. An error returned by f fails the stream as-is.
func NewMap[In, Out any](f func(In) (Out, error)) *Map[In, Out] {
	return &Map[In, Out]{f: f}
}

func (s *Map[In, Out]) OnPush(elem In, ctx Context[Out]) Directive {
	out, err := s.f(elem)
	if err != nil {
		return ctx.Fail(err)
	}
	return ctx.Push(out)
}

// Filter passes elements satisfying p and re-pulls for the rest.
type Filter[T any] struct {
	Base[T]
	p func(T) bool
}

// NewFilter creates a Filter stage.
func NewFilter[T any](p func(T) bool) *Filter[T] {
	return &Filter[T]{p: p}
}

func (s *Filter[T]) OnPush(elem T, ctx Context[T]) Directive {
	if s.p(elem) {
		return ctx.Push(elem)
	}
	return ctx.Pull()
}

// Collect applies a partial function: pf reports false for elements it is
// not defined on, which are skipped.
type Collect[In, Out any] struct {
	Base[Out]
	pf func(In) (Out, bool)
}

// NewCollect creates a Collect stage. pf is called exactly once per element.
func NewCollect[In, Out any](pf func(In) (Out, bool)) *Collect[In, Out] {
	return &Collect[In, Out]{pf: pf}
}

func (s *Collect[In, Out]) OnPush(elem In, ctx Context[Out]) Directive {
	if out, ok := s.pf(elem); ok {
		return ctx.Push(out)
	}
	return ctx.Pull()
}

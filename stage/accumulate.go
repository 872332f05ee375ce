package stage

import "github.com/kbukum/fusekit/errors"

// Scan emits the running aggregate before each update, starting with zero,
// and the final aggregate once upstream completes.
type Scan[In, Out any] struct {
	agg Out
	f   func(Out, In) Out
}

// NewScan creates a Scan stage.
func NewScan[In, Out any](zero Out, f func(Out, In) Out) *Scan[In, Out] {
	return &Scan[In, Out]{agg: zero, f: f}
}

func (s *Scan[In, Out]) OnPush(elem In, ctx Context[Out]) Directive {
	old := s.agg
	s.agg = s.f(old, elem)
	return ctx.Push(old)
}

func (s *Scan[In, Out]) OnPull(ctx Context[Out]) Directive {
	if ctx.IsFinishing() {
		return ctx.PushAndFinish(s.agg)
	}
	return ctx.Pull()
}

func (s *Scan[In, Out]) OnUpstreamFinish(ctx Context[Out]) Termination {
	return ctx.AbsorbTermination()
}

// Fold emits a single value, the left fold of all elements, after upstream
// completes.
type Fold[In, Out any] struct {
	agg Out
	f   func(Out, In) Out
}

// NewFold creates a Fold stage.
func NewFold[In, Out any](zero Out, f func(Out, In) Out) *Fold[In, Out] {
	return &Fold[In, Out]{agg: zero, f: f}
}

func (s *Fold[In, Out]) OnPush(elem In, ctx Context[Out]) Directive {
	s.agg = s.f(s.agg, elem)
	return ctx.Pull()
}

func (s *Fold[In, Out]) OnPull(ctx Context[Out]) Directive {
	if ctx.IsFinishing() {
		return ctx.PushAndFinish(s.agg)
	}
	return ctx.Pull()
}

func (s *Fold[In, Out]) OnUpstreamFinish(ctx Context[Out]) Termination {
	return ctx.AbsorbTermination()
}

// Grouped emits elements in batches of n; a trailing partial batch is
// flushed when upstream completes.
type Grouped[T any] struct {
	n   int
	buf []T
}

// NewGrouped creates a Grouped stage. n must be positive.
func NewGrouped[T any](n int) (*Grouped[T], error) {
	if n < 1 {
		return nil, errors.InvalidInput("n", "group size must be positive")
	}
	return &Grouped[T]{n: n, buf: make([]T, 0, n)}, nil
}

func (s *Grouped[T]) OnPush(elem T, ctx Context[[]T]) Directive {
	s.buf = append(s.buf, elem)
	if len(s.buf) == s.n {
		return ctx.Push(s.flush())
	}
	return ctx.Pull()
}

func (s *Grouped[T]) OnPull(ctx Context[[]T]) Directive {
	if ctx.IsFinishing() {
		return ctx.PushAndFinish(s.flush())
	}
	return ctx.Pull()
}

func (s *Grouped[T]) OnUpstreamFinish(ctx Context[[]T]) Termination {
	if len(s.buf) == 0 {
		return ctx.PropagateFinish()
	}
	return ctx.AbsorbTermination()
}

func (s *Grouped[T]) flush() []T {
	group := s.buf
	s.buf = make([]T, 0, s.n)
	return group
}

package stage

// MapConcat expands each element into a sequence and emits its items one
// per pull.
type MapConcat[In, Out any] struct {
	f       func(In) []Out
	pending []Out
	// next index into pending; pending belongs to f and is never written
	pos int
}

// NewMapConcat creates a MapConcat stage.
func NewMapConcat[In, Out any](f func(In) []Out) *MapConcat[In, Out] {
	return &MapConcat[In, Out]{f: f}
}

func (s *MapConcat[In, Out]) OnPush(elem In, ctx Context[Out]) Directive {
	s.pending, s.pos = s.f(elem), 0
	if s.remaining() == 0 {
		return ctx.Pull()
	}
	return ctx.Push(s.next())
}

func (s *MapConcat[In, Out]) OnPull(ctx Context[Out]) Directive {
	if s.remaining() == 0 {
		if ctx.IsFinishing() {
			return ctx.Finish()
		}
		return ctx.Pull()
	}
	out := s.next()
	if ctx.IsFinishing() && s.remaining() == 0 {
		return ctx.PushAndFinish(out)
	}
	return ctx.Push(out)
}

func (s *MapConcat[In, Out]) OnUpstreamFinish(ctx Context[Out]) Termination {
	if s.remaining() == 0 {
		return ctx.PropagateFinish()
	}
	return ctx.AbsorbTermination()
}

func (s *MapConcat[In, Out]) remaining() int { return len(s.pending) - s.pos }

func (s *MapConcat[In, Out]) next() Out {
	out := s.pending[s.pos]
	s.pos++
	if s.pos == len(s.pending) {
		s.pending, s.pos = nil, 0
	}
	return out
}

package stage

// Expand serves a faster downstream by extrapolating from the last element:
// each pull runs extrapolate on the held state until a new element replaces
// it. Upstream is pulled once per element.
type Expand[In, Out, Seed any] struct {
	seed        func(In) Seed
	extrapolate func(Seed) (Out, Seed)

	state   Seed
	started bool
	// expanded is false while the latest element has not produced any output yet.
	expanded bool
}

// NewExpand creates an Expand stage. seed turns an element into the
// extrapolation state; extrapolate produces one output and the next state.
func NewExpand[In, Out, Seed any](seed func(In) Seed, extrapolate func(Seed) (Out, Seed)) *Expand[In, Out, Seed] {
	return &Expand[In, Out, Seed]{seed: seed, extrapolate: extrapolate}
}

func (s *Expand[In, Out, Seed]) OnPush(elem In, ctx DetachedContext[Out]) Directive {
	s.state = s.seed(elem)
	s.started = true
	s.expanded = false
	if ctx.IsHolding() {
		return ctx.PushAndPull(s.step())
	}
	return ctx.Hold()
}

func (s *Expand[In, Out, Seed]) OnPull(ctx DetachedContext[Out]) Directive {
	switch {
	case ctx.IsFinishing():
		if s.expanded {
			return ctx.Finish()
		}
		return ctx.PushAndFinish(s.step())
	case !s.started:
		return ctx.Hold()
	}
	out := s.step()
	if ctx.IsHolding() {
		return ctx.PushAndPull(out)
	}
	return ctx.Push(out)
}

// OnUpstreamFinish completes right away unless the last element has not been
// emitted at least once, in which case that one output is flushed first.
func (s *Expand[In, Out, Seed]) OnUpstreamFinish(ctx DetachedContext[Out]) Termination {
	if !s.started || s.expanded {
		return ctx.PropagateFinish()
	}
	return ctx.AbsorbTermination()
}

func (s *Expand[In, Out, Seed]) step() Out {
	out, next := s.extrapolate(s.state)
	s.state = next
	s.expanded = true
	return out
}

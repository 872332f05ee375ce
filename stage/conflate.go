package stage

// Conflate folds bursts of upstream elements into one aggregate while
// downstream is slower. At most one aggregate is pending at any time.
type Conflate[In, Out any] struct {
	seed      func(In) Out
	aggregate func(Out, In) Out

	agg     Out
	present bool
}

// NewConflate creates a Conflate stage. seed starts a new aggregate from the
// first element of a burst; aggregate merges each further element into it.
func NewConflate[In, Out any](seed func(In) Out, aggregate func(Out, In) Out) *Conflate[In, Out] {
	return &Conflate[In, Out]{seed: seed, aggregate: aggregate}
}

func (s *Conflate[In, Out]) OnPush(elem In, ctx DetachedContext[Out]) Directive {
	if s.present {
		s.agg = s.aggregate(s.agg, elem)
	} else {
		s.agg = s.seed(elem)
		s.present = true
	}
	if ctx.IsHolding() {
		return ctx.PushAndPull(s.take())
	}
	return ctx.Pull()
}

func (s *Conflate[In, Out]) OnPull(ctx DetachedContext[Out]) Directive {
	switch {
	case ctx.IsFinishing():
		if !s.present {
			return ctx.Finish()
		}
		return ctx.PushAndFinish(s.take())
	case !s.present:
		return ctx.Hold()
	default:
		return ctx.Push(s.take())
	}
}

func (s *Conflate[In, Out]) OnUpstreamFinish(ctx DetachedContext[Out]) Termination {
	return ctx.AbsorbTermination()
}

func (s *Conflate[In, Out]) take() Out {
	out := s.agg
	var zero Out
	s.agg = zero
	s.present = false
	return out
}

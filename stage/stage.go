package stage

import "slices"

// Stage is a transitive stage: every call is answered without waiting for
// the other side.
type Stage[In, Out any] interface {
	OnPush(elem In, ctx Context[Out]) Directive
	OnPull(ctx Context[Out]) Directive
	OnUpstreamFinish(ctx Context[Out]) Termination
}

// DetachedStage may hold a call until a matching call from the other side
// arrives.
type DetachedStage[In, Out any] interface {
	OnPush(elem In, ctx DetachedContext[Out]) Directive
	OnPull(ctx DetachedContext[Out]) Directive
	OnUpstreamFinish(ctx DetachedContext[Out]) Termination
}

// Base supplies the default transitive handlers: pull on demand and
// propagate upstream completion.
type Base[Out any] struct{}

func (Base[Out]) OnPull(ctx Context[Out]) Directive { return ctx.Pull() }

func (Base[Out]) OnUpstreamFinish(ctx Context[Out]) Termination { return ctx.PropagateFinish() }

// DetachedBase supplies the default detached completion handler.
type DetachedBase[Out any] struct{}

func (DetachedBase[Out]) OnUpstreamFinish(ctx DetachedContext[Out]) Termination {
	return ctx.PropagateFinish()
}

// Op is a stage with its element types erased, as run by the interpreter.
type Op interface {
	Name() string
	Detached() bool
	Push(elem any, s State) Directive
	Pull(s State) Directive
	UpstreamFinish(s State) Termination
}

type transitiveOp[In, Out any] struct {
	name  string
	stage Stage[In, Out]
}

func (o *transitiveOp[In, Out]) Name() string   { return o.name }
func (o *transitiveOp[In, Out]) Detached() bool { return false }

func (o *transitiveOp[In, Out]) Push(elem any, s State) Directive {
	return o.stage.OnPush(cast[In](elem), opContext[Out]{state: s})
}

func (o *transitiveOp[In, Out]) Pull(s State) Directive {
	return o.stage.OnPull(opContext[Out]{state: s})
}

func (o *transitiveOp[In, Out]) UpstreamFinish(s State) Termination {
	return o.stage.OnUpstreamFinish(opContext[Out]{state: s})
}

type detachedOp[In, Out any] struct {
	name  string
	stage DetachedStage[In, Out]
}

func (o *detachedOp[In, Out]) Name() string   { return o.name }
func (o *detachedOp[In, Out]) Detached() bool { return true }

func (o *detachedOp[In, Out]) Push(elem any, s State) Directive {
	return o.stage.OnPush(cast[In](elem), detachedContext[Out]{opContext[Out]{state: s}})
}

func (o *detachedOp[In, Out]) Pull(s State) Directive {
	return o.stage.OnPull(detachedContext[Out]{opContext[Out]{state: s}})
}

func (o *detachedOp[In, Out]) UpstreamFinish(s State) Termination {
	return o.stage.OnUpstreamFinish(detachedContext[Out]{opContext[Out]{state: s}})
}

// cast recovers a typed element; nil stands for the zero value of interface types.
func cast[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Erase wraps a single transitive stage instance as an Op.
func Erase[In, Out any](name string, s Stage[In, Out]) Op {
	return &transitiveOp[In, Out]{name: name, stage: s}
}

// EraseDetached wraps a single detached stage instance as an Op.
func EraseDetached[In, Out any](name string, s DetachedStage[In, Out]) Op {
	return &detachedOp[In, Out]{name: name, stage: s}
}

// Flow is a typed, reusable chain of stage factories from In to Out.
// Materialize creates fresh stage state for each run.
type Flow[In, Out any] struct {
	factories []func() Op
}

// Lift turns a transitive stage factory into a single-stage Flow.
func Lift[In, Out any](name string, mk func() Stage[In, Out]) Flow[In, Out] {
	return Flow[In, Out]{factories: []func() Op{
		func() Op { return Erase(name, mk()) },
	}}
}

// LiftDetached turns a detached stage factory into a single-stage Flow.
func LiftDetached[In, Out any](name string, mk func() DetachedStage[In, Out]) Flow[In, Out] {
	return Flow[In, Out]{factories: []func() Op{
		func() Op { return EraseDetached(name, mk()) },
	}}
}

// Via appends second after first.
func Via[A, B, C any](first Flow[A, B], second Flow[B, C]) Flow[A, C] {
	return Flow[A, C]{factories: slices.Concat(first.factories, second.factories)}
}

// Len returns the number of stages in the flow.
func (f Flow[In, Out]) Len() int { return len(f.factories) }

// Materialize creates one fresh Op per stage, upstream first.
func (f Flow[In, Out]) Materialize() []Op {
	ops := make([]Op, len(f.factories))
	for i, mk := range f.factories {
		ops[i] = mk()
	}
	return ops
}

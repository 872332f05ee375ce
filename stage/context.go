package stage

// State is the interpreter's view of a running op, consulted by contexts.
type State interface {
	// IsHolding reports whether the op holds a pending push or pull.
	IsHolding() bool
	// IsFinishing reports whether upstream completed and the op absorbed it.
	IsFinishing() bool
}

// Context builds the directives a transitive stage may return.
type Context[Out any] interface {
	Push(elem Out) Directive
	Pull() Directive
	Finish() Directive
	PushAndFinish(elem Out) Directive
	Fail(err error) Directive

	// PropagateFinish completes downstream as soon as upstream completes.
	PropagateFinish() Termination
	// AbsorbTermination defers completion until the stage finishes on its own.
	AbsorbTermination() Termination

	IsFinishing() bool
}

// DetachedContext adds the directives only detached stages may return.
type DetachedContext[Out any] interface {
	Context[Out]

	// Hold suspends the current call until the other side moves.
	Hold() Directive
	// PushAndPull emits elem downstream and pulls upstream, releasing the held call.
	PushAndPull(elem Out) Directive

	IsHolding() bool
}

type opContext[Out any] struct {
	state State
}

func (c opContext[Out]) Push(elem Out) Directive {
	return Directive{kind: KindPush, elem: elem}
}

func (c opContext[Out]) Pull() Directive {
	return Directive{kind: KindPull}
}

func (c opContext[Out]) Finish() Directive {
	return Directive{kind: KindFinish}
}

func (c opContext[Out]) PushAndFinish(elem Out) Directive {
	return Directive{kind: KindPushAndFinish, elem: elem}
}

func (c opContext[Out]) Fail(err error) Directive {
	return Directive{kind: KindFail, err: err}
}

func (c opContext[Out]) PropagateFinish() Termination { return TerminationFinish }

func (c opContext[Out]) AbsorbTermination() Termination { return TerminationAbsorb }

func (c opContext[Out]) IsFinishing() bool { return c.state.IsFinishing() }

type detachedContext[Out any] struct {
	opContext[Out]
}

func (c detachedContext[Out]) Hold() Directive {
	return Directive{kind: KindHold}
}

func (c detachedContext[Out]) PushAndPull(elem Out) Directive {
	return Directive{kind: KindPushAndPull, elem: elem}
}

func (c detachedContext[Out]) IsHolding() bool { return c.state.IsHolding() }

package stage

// Kind enumerates what a Directive asks the interpreter to do.
type Kind uint8

const (
	// KindPush emits an element downstream.
	KindPush Kind = iota + 1
	// KindPull requests the next element from upstream.
	KindPull
	// KindFinish completes downstream and cancels upstream.
	KindFinish
	// KindPushAndFinish emits a last element, then finishes.
	KindPushAndFinish
	// KindFail fails downstream and cancels upstream.
	KindFail
	// KindHold defers the current call until the other side moves. Detached only.
	KindHold
	// KindPushAndPull emits an element and pulls upstream at once, releasing a held call. Detached only.
	KindPushAndPull
)

var kindNames = map[Kind]string{
	KindPush:          "push",
	KindPull:          "pull",
	KindFinish:        "finish",
	KindPushAndFinish: "push-and-finish",
	KindFail:          "fail",
	KindHold:          "hold",
	KindPushAndPull:   "push-and-pull",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Emits reports whether the directive carries an element downstream.
func (k Kind) Emits() bool {
	return k == KindPush || k == KindPushAndFinish || k == KindPushAndPull
}

// Directive is a handler's answer to the interpreter. It can only be built
// through a Context, which restricts each stage category to its legal set.
type Directive struct {
	kind Kind
	elem any
	err  error
}

// Kind returns what the directive asks for.
func (d Directive) Kind() Kind { return d.kind }

// Elem returns the emitted element for push directives.
func (d Directive) Elem() any { return d.elem }

// Err returns the failure cause of a KindFail directive.
func (d Directive) Err() error { return d.err }

// Termination is a stage's answer to upstream completion.
type Termination uint8

const (
	// TerminationFinish propagates completion downstream right away.
	TerminationFinish Termination = iota
	// TerminationAbsorb keeps the stage answering pulls from its internal
	// state; the stage itself later emits PushAndFinish or Finish.
	TerminationAbsorb
)

func (t Termination) String() string {
	if t == TerminationAbsorb {
		return "absorb-termination"
	}
	return "finish"
}

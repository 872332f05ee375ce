package interpreter

import (
	"context"

	"github.com/kbukum/fusekit/errors"
	"github.com/kbukum/fusekit/logger"
	"github.com/kbukum/fusekit/observability"
	"github.com/kbukum/fusekit/stage"
)

type eventKind uint8

const (
	evInit     eventKind = iota + 1 // initial upstream pull of a detached op
	evRequest                       // downstream boundary demands one element
	evNext                          // upstream boundary delivers an element
	evComplete                      // upstream boundary completed
	evError                         // upstream boundary failed
	evCancel                        // downstream boundary cancelled
	evPull                          // op idx is pulled by its downstream neighbour
	evPush                          // op idx receives an element from its upstream neighbour
	evFinish                        // upstream of op idx finished
	evCancelOp                      // downstream of op idx cancelled
)

type event struct {
	kind eventKind
	idx  int
	elem any
	err  error
}

// opState is the interpreter's bookkeeping for one op. It is also the
// stage.State handed to the op's context.
type opState struct {
	pulled       bool // downstream demand outstanding
	requested    bool // upstream request outstanding
	holding      bool
	finishing    bool
	upstreamDone bool
	terminated   bool
}

func (s *opState) IsHolding() bool   { return s.holding }
func (s *opState) IsFinishing() bool { return s.finishing }

// Interpreter drives a chain of ops between an Upstream and a Downstream.
// It is not safe for concurrent use.
type Interpreter struct {
	ops    []stage.Op
	states []*opState
	up     Upstream
	down   Downstream

	name    string
	runID   string
	log     *logger.Logger
	metrics *observability.Metrics
	ctx     context.Context

	queue       []event
	running     bool
	initialized bool

	upRequested bool
	upDone      bool
	downDone    bool
	err         error

	// directive being applied, zero outside apply
	directive stage.Kind
}

// New creates an interpreter for ops, ordered upstream first. ops must come
// from a fresh Materialize call; ops carry per-run state.
func New(ops []stage.Op, up Upstream, down Downstream, opts ...Option) *Interpreter {
	s := NewSettings(opts...)
	in := &Interpreter{
		ops:     ops,
		states:  make([]*opState, len(ops)),
		up:      up,
		down:    down,
		name:    s.Name,
		runID:   s.RunID,
		metrics: s.Metrics,
		ctx:     s.Context,
	}
	for i := range in.states {
		in.states[i] = &opState{}
	}
	in.log = s.Logger.WithComponent("interpreter").WithRun(in.runID).
		WithFields(logger.Fields(logger.FieldPipeline, in.name))
	return in
}

// Name returns the chain name used in logs and metrics.
func (in *Interpreter) Name() string { return in.name }

// RunID returns the unique id of this run.
func (in *Interpreter) RunID() string { return in.runID }

// Len returns the number of ops in the chain.
func (in *Interpreter) Len() int { return len(in.ops) }

// IsCompleted reports whether downstream has been completed, failed or
// cancelled.
func (in *Interpreter) IsCompleted() bool { return in.downDone }

// Err returns the failure that terminated the run, if any.
func (in *Interpreter) Err() error { return in.err }

// UpstreamPending reports whether the chain is waiting for an element from
// the upstream boundary.
func (in *Interpreter) UpstreamPending() bool { return in.upRequested && !in.upDone }

// Init issues the initial upstream pull of every detached op. It is called
// implicitly by the first RequestOne.
func (in *Interpreter) Init() {
	if in.initialized {
		return
	}
	in.initialized = true
	for i, op := range in.ops {
		if op.Detached() {
			in.enqueue(event{kind: evInit, idx: i})
		}
	}
}

// RequestOne signals demand for one element from the downstream boundary.
func (in *Interpreter) RequestOne() {
	in.Init()
	in.enqueue(event{kind: evRequest})
}

// OnNext delivers an element from the upstream boundary.
func (in *Interpreter) OnNext(elem any) {
	in.enqueue(event{kind: evNext, elem: elem})
}

// OnComplete signals that the upstream boundary has no more elements.
func (in *Interpreter) OnComplete() {
	in.enqueue(event{kind: evComplete})
}

// OnError fails the run with err from the upstream boundary.
func (in *Interpreter) OnError(err error) {
	in.enqueue(event{kind: evError, err: err})
}

// Cancel stops the run from the downstream side.
func (in *Interpreter) Cancel() {
	in.enqueue(event{kind: evCancel})
}

func (in *Interpreter) enqueue(ev event) {
	in.queue = append(in.queue, ev)
	if in.running {
		return
	}
	in.running = true
	defer func() { in.running = false }()

	for len(in.queue) > 0 {
		next := in.queue[0]
		in.queue[0] = event{}
		in.queue = in.queue[1:]
		in.dispatch(next)
	}
	in.queue = nil
}

func (in *Interpreter) signal(ev event) {
	in.queue = append(in.queue, ev)
}

func (in *Interpreter) dispatch(ev event) {
	if in.err != nil {
		return
	}
	last := len(in.ops) - 1

	switch ev.kind {
	case evInit:
		st := in.states[ev.idx]
		if !st.terminated && !st.requested {
			in.requestUpstream(ev.idx)
		}

	case evRequest:
		if in.downDone {
			return
		}
		in.onPull(last)

	case evNext:
		if in.upDone {
			return
		}
		if !in.upRequested {
			in.violation(-1, "element delivered without a request")
			return
		}
		in.upRequested = false
		in.onPush(0, ev.elem)

	case evComplete:
		if in.upDone {
			return
		}
		in.upDone = true
		in.upRequested = false
		in.onUpstreamFinish(0)

	case evError:
		if in.upDone {
			return
		}
		in.upDone = true
		in.upRequested = false
		in.fail(-1, ev.err)

	case evCancel:
		if in.downDone {
			return
		}
		in.downDone = true
		in.log.Debug("downstream cancelled")
		in.onCancel(last)

	case evPull:
		in.onPull(ev.idx)

	case evPush:
		in.onPush(ev.idx, ev.elem)

	case evFinish:
		in.onUpstreamFinish(ev.idx)

	case evCancelOp:
		in.onCancel(ev.idx)
	}
}

func (in *Interpreter) onPull(i int) {
	if i < 0 {
		switch {
		case in.upDone:
		case in.upRequested:
			in.violation(len(in.ops), "requested while a request is outstanding")
		default:
			in.upRequested = true
			in.up.Request()
		}
		return
	}

	st := in.states[i]
	if st.terminated {
		return
	}
	if st.pulled {
		in.violation(i, "pulled while previous demand is outstanding")
		return
	}
	st.pulled = true
	op := in.ops[i]
	in.invoke(i, func() stage.Directive { return op.Pull(st) })
}

func (in *Interpreter) onPush(i int, elem any) {
	if i >= len(in.ops) {
		if !in.downDone {
			in.down.OnNext(elem)
		}
		return
	}

	st := in.states[i]
	if st.terminated {
		return
	}
	if !st.requested {
		in.violation(i, "element pushed without demand")
		return
	}
	st.requested = false
	if in.metrics != nil {
		in.metrics.RecordPush(in.ctx, in.name, in.ops[i].Name())
	}
	op := in.ops[i]
	in.invoke(i, func() stage.Directive { return op.Push(elem, st) })
}

func (in *Interpreter) onUpstreamFinish(i int) {
	if i >= len(in.ops) {
		if !in.downDone {
			in.downDone = true
			in.log.Debug("run completed")
			in.down.OnComplete()
		}
		return
	}

	st := in.states[i]
	if st.terminated {
		return
	}
	st.upstreamDone = true
	st.requested = false
	st.holding = false

	op := in.ops[i]
	term, err := guard(op.Name(), func() stage.Termination { return op.UpstreamFinish(st) })
	if err != nil {
		in.fail(i, err)
		return
	}
	if term != stage.TerminationAbsorb {
		in.complete(i)
		return
	}

	st.finishing = true
	if in.log.DebugEnabled() {
		in.log.Debug("stage absorbed upstream completion", in.stageFields(i))
	}
	if st.pulled {
		in.invoke(i, func() stage.Directive { return op.Pull(st) })
	}
}

func (in *Interpreter) onCancel(i int) {
	if i < 0 {
		if !in.upDone {
			in.upDone = true
			in.upRequested = false
			in.up.Cancel()
		}
		return
	}

	st := in.states[i]
	if st.terminated {
		return
	}
	st.terminated = true
	if in.log.DebugEnabled() {
		in.log.Debug("stage cancelled", in.stageFields(i))
	}
	if !st.upstreamDone {
		in.signal(event{kind: evCancelOp, idx: i - 1})
	}
}

func (in *Interpreter) invoke(i int, handler func() stage.Directive) {
	d, err := guard(in.ops[i].Name(), handler)
	if err != nil {
		in.fail(i, err)
		return
	}
	in.apply(i, d)
}

func (in *Interpreter) apply(i int, d stage.Directive) {
	st := in.states[i]
	detached := in.ops[i].Detached()
	in.directive = d.Kind()
	defer func() { in.directive = 0 }()

	switch d.Kind() {
	case stage.KindPush:
		// a plain push answers a held call without pulling upstream
		if in.emit(i, d.Elem()) {
			st.holding = false
		}

	case stage.KindPull:
		in.requestUpstream(i)

	case stage.KindFinish:
		in.complete(i)

	case stage.KindPushAndFinish:
		if in.emit(i, d.Elem()) {
			in.complete(i)
		}

	case stage.KindFail:
		err := d.Err()
		if err == nil {
			err = errors.New(errors.ErrCodeInternal, "stage failed without a cause")
		}
		in.fail(i, err)

	case stage.KindHold:
		switch {
		case !detached:
			in.violation(i, "hold from a transitive stage")
		case st.holding:
			in.violation(i, "hold while already holding")
		case st.upstreamDone:
			in.violation(i, "hold after upstream completion")
		default:
			st.holding = true
		}

	case stage.KindPushAndPull:
		switch {
		case !detached:
			in.violation(i, "push-and-pull from a transitive stage")
		case !st.holding:
			in.violation(i, "push-and-pull without a held call")
		default:
			st.holding = false
			if in.emit(i, d.Elem()) {
				in.requestUpstream(i)
			}
		}

	default:
		in.violation(i, "unknown directive "+d.Kind().String())
	}
}

func (in *Interpreter) emit(i int, elem any) bool {
	st := in.states[i]
	if !st.pulled {
		in.violation(i, "push without downstream demand")
		return false
	}
	st.pulled = false
	if in.metrics != nil {
		in.metrics.RecordEmit(in.ctx, in.name, in.ops[i].Name())
	}
	in.signal(event{kind: evPush, idx: i + 1, elem: elem})
	return true
}

func (in *Interpreter) requestUpstream(i int) bool {
	st := in.states[i]
	switch {
	case st.upstreamDone:
		in.violation(i, "pull after upstream completion")
		return false
	case st.requested:
		in.violation(i, "pull while a request is outstanding")
		return false
	}
	st.requested = true
	if in.metrics != nil {
		in.metrics.RecordPull(in.ctx, in.name, in.ops[i].Name())
	}
	in.signal(event{kind: evPull, idx: i - 1})
	return true
}

// complete terminates op i: downstream is finished, upstream cancelled.
func (in *Interpreter) complete(i int) {
	st := in.states[i]
	st.terminated = true
	st.holding = false
	if in.log.DebugEnabled() {
		in.log.Debug("stage finished", in.stageFields(i))
	}
	in.signal(event{kind: evFinish, idx: i + 1})
	if !st.upstreamDone {
		in.signal(event{kind: evCancelOp, idx: i - 1})
	}
}

// fail short-circuits the run: every op terminates, downstream receives
// err and upstream is cancelled. No stage gets to flush.
func (in *Interpreter) fail(i int, err error) {
	in.err = err
	in.queue = nil
	for _, st := range in.states {
		st.terminated = true
	}

	name := in.stageName(i)
	in.log.WithError(err).Error("stage failed", logger.Fields(logger.FieldStage, name))
	if in.metrics != nil {
		code := string(errors.ErrCodeInternal)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		in.metrics.RecordStageFailure(in.ctx, in.name, name, code)
	}

	if !in.downDone {
		in.downDone = true
		in.down.OnError(err)
	}
	if !in.upDone {
		in.upDone = true
		in.upRequested = false
		in.up.Cancel()
	}
}

func (in *Interpreter) violation(i int, reason string) {
	name := in.stageName(i)
	fields := logger.Fields(logger.FieldStage, name, "reason", reason)
	if in.directive != 0 {
		fields[logger.FieldDirective] = in.directive.String()
	}
	in.log.Warn("protocol violation", fields)
	in.fail(i, errors.ProtocolViolation(name, reason))
}

func (in *Interpreter) stageName(i int) string {
	switch {
	case i < 0:
		return "upstream"
	case i >= len(in.ops):
		return "downstream"
	default:
		return in.ops[i].Name()
	}
}

func (in *Interpreter) stageFields(i int) map[string]interface{} {
	return logger.StageFields(in.ops[i].Name(), i)
}

// guard runs a stage handler, turning a panic into an error. Error values
// are returned as-is; anything else becomes STAGE_PANIC.
func guard[R any](name string, fn func() R) (r R, err error) {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok {
				err = e
				return
			}
			err = errors.StagePanic(name, v)
		}
	}()
	return fn(), nil
}

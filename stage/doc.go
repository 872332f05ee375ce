// Package stage provides the stage protocol of fused stream pipelines and
// the stock stages built on it.
//
// A stage is a small state machine reacting to three events: an element
// arrived from upstream (OnPush), downstream asked for an element (OnPull),
// and upstream completed (OnUpstreamFinish). Each handler answers with a
// Directive built from the context it was handed, telling the interpreter
// what to do next: push an element, pull from upstream, finish, fail, or
// (for detached stages) hold until the other side moves.
//
// # Categories
//
// Transitive stages ([Stage]) always answer the side that called them.
// Detached stages ([DetachedStage]) may [DetachedContext.Hold] a call and
// later satisfy it together with the other side via
// [DetachedContext.PushAndPull]. The category is fixed by the context type,
// so a transitive stage cannot even construct a Hold.
//
// # Stages
//
//   - Map, Filter, Collect: one in, at most one out
//   - MapConcat: one in, many out
//   - Take, Drop: counting truncation
//   - Scan, Fold, Grouped: accumulation with a flush on upstream completion
//   - Buffer, Conflate, Expand: detached rate adapters
//   - Completed: ends the stream immediately
//
// # Usage
//
// Stages are lifted into a typed [Flow] from a factory, so every
// materialization gets fresh state:
//
//	evens := stage.Lift("filter", func() stage.Stage[int, int] {
//	    return stage.NewFilter(func(n int) bool { return n%2 == 0 })
//	})
//	firstThree := stage.Lift("take", func() stage.Stage[int, int] {
//	    return stage.NewTake[int](3)
//	})
//	flow := stage.Via(evens, firstThree)
//	ops := flow.Materialize() // hand to interpreter.New
package stage

// Package interpreter runs a chain of fused stages on a single goroutine.
//
// The interpreter sits between an Upstream, which produces elements on
// request, and a Downstream, which consumes them. Every boundary call
// (RequestOne, OnNext, OnComplete, OnError, Cancel) is turned into an event
// and processed from a FIFO queue, so calls made from inside a boundary
// callback are queued rather than recursing into the stages.
//
// The chain is one-bounded: each stage has at most one outstanding
// downstream demand and at most one outstanding upstream request. A stage
// that breaks the protocol fails the run with PROTOCOL_VIOLATION.
//
//	in := interpreter.New(flow.Materialize(), up, down,
//		interpreter.WithName("etl"),
//		interpreter.WithLogger(log),
//	)
//	in.Init()
//	in.RequestOne()
package interpreter

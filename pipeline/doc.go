// Package pipeline provides composable, pull-based data pipelines whose
// stages run fused in a single interpreter.
//
// Pipelines are lazy: no work happens until values are pulled via Collect,
// Drain, ForEach or Iter. Every Next on the result requests one element from
// the last stage; demand travels up the chain and the source is read only
// while a stage is waiting for an element, so backpressure needs no
// channels or goroutines.
//
// # Operators
//
// Element-wise:
//
//   - Map: transform each value; an error fails the pipeline as-is
//   - Tap: side-effect without altering the value
//   - Filter, FilterMap: keep or transform-and-keep matching values
//   - FlatMap: expand each value into zero or more values
//   - Take, Drop: truncate by count
//
// Accumulating (flush on source completion):
//
//   - Scan: running accumulator
//   - Reduce: one final accumulator
//   - Grouped: fixed-size batches
//
// Rate decoupling (detached stages):
//
//   - Buffer, BufferFromConfig: bounded queue with an overflow strategy
//   - Conflate: merge values while the consumer is busy
//   - Expand: extrapolate from the latest value while the source is slow
//
// Any stage.Flow can be appended with Via.
//
// # Errors
//
// A source error or a failing stage ends the run with that error. A stage
// holding with nothing requested upstream ends it with STALLED, and a
// cancelled context with CANCELLED. Invalid operator arguments (Grouped(p, 0))
// are reported by every terminal of the pipeline.
//
// # Usage
//
//	src := pipeline.FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
//	evens := pipeline.Filter(src, func(n int) bool { return n%2 == 0 })
//	doubled := pipeline.Map(evens, func(_ context.Context, n int) (int, error) {
//	    return n * 2, nil
//	})
//	first, _ := pipeline.Collect(ctx, pipeline.Take(doubled, 3)) // [4 8 12]
//
// Collect, Drain and ForEach run inside a pipeline.run span and, with
// interpreter.WithMetrics, record stream metrics:
//
//	p := pipeline.FromSlice(orders).WithOptions(
//	    interpreter.WithName("orders"),
//	    interpreter.WithMetrics(metrics),
//	)
package pipeline

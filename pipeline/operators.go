package pipeline

import (
	"context"

	"github.com/kbukum/fusekit/config"
	"github.com/kbukum/fusekit/stage"
)

// Map transforms each value using fn. An error from fn fails the pipeline
// unchanged.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return then[I, O](p, func(ctx context.Context) []stage.Op {
		return []stage.Op{stage.Erase[I, O]("map", stage.NewMap(func(v I) (O, error) {
			return fn(ctx, v)
		}))}
	})
}

// FlatMap expands each value into zero or more values, in order.
func FlatMap[I, O any](p *Pipeline[I], fn func(context.Context, I) []O) *Pipeline[O] {
	return then[I, O](p, func(ctx context.Context) []stage.Op {
		return []stage.Op{stage.Erase[I, O]("flat_map", stage.NewMapConcat(func(v I) []O {
			return fn(ctx, v)
		}))}
	})
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](p *Pipeline[T], fn func(T) bool) *Pipeline[T] {
	return then[T, T](p, func(context.Context) []stage.Op {
		return []stage.Op{stage.Erase[T, T]("filter", stage.NewFilter(fn))}
	})
}

// FilterMap transforms the values fn accepts and drops the rest. fn runs
// once per value.
func FilterMap[I, O any](p *Pipeline[I], fn func(I) (O, bool)) *Pipeline[O] {
	return then[I, O](p, func(context.Context) []stage.Op {
		return []stage.Op{stage.Erase[I, O]("filter_map", stage.NewCollect(fn))}
	})
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
// Use for logging, metrics, or mid-pipeline publishing.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return then[T, T](p, func(ctx context.Context) []stage.Op {
		return []stage.Op{stage.Erase[T, T]("tap", stage.NewMap(func(v T) (T, error) {
			return v, fn(ctx, v)
		}))}
	})
}

// Take passes the first n values and then completes, cancelling the source.
func Take[T any](p *Pipeline[T], n int) *Pipeline[T] {
	return then[T, T](p, func(context.Context) []stage.Op {
		return []stage.Op{stage.Erase[T, T]("take", stage.NewTake[T](n))}
	})
}

// Drop skips the first n values.
func Drop[T any](p *Pipeline[T], n int) *Pipeline[T] {
	return then[T, T](p, func(context.Context) []stage.Op {
		return []stage.Op{stage.Erase[T, T]("drop", stage.NewDrop[T](n))}
	})
}

// Scan yields the running accumulator before each value is folded in, and
// the final accumulator once the source completes.
func Scan[T, R any](p *Pipeline[T], init R, fn func(R, T) R) *Pipeline[R] {
	return then[T, R](p, func(context.Context) []stage.Op {
		return []stage.Op{stage.Erase[T, R]("scan", stage.NewScan(init, fn))}
	})
}

// Reduce accumulates all values into a single result.
// The pipeline yields exactly one value: the final accumulator.
func Reduce[T, R any](p *Pipeline[T], init R, fn func(R, T) R) *Pipeline[R] {
	return then[T, R](p, func(context.Context) []stage.Op {
		return []stage.Op{stage.Erase[T, R]("reduce", stage.NewFold(init, fn))}
	})
}

// Grouped batches values into slices of n; the last batch may be shorter.
// n < 1 fails every run with INVALID_INPUT.
func Grouped[T any](p *Pipeline[T], n int) *Pipeline[[]T] {
	if _, err := stage.NewGrouped[T](n); err != nil {
		return broken[T, []T](p, err)
	}
	return then[T, []T](p, func(context.Context) []stage.Op {
		g, _ := stage.NewGrouped[T](n)
		return []stage.Op{stage.Erase[T, []T]("grouped", g)}
	})
}

// Buffer decouples the source from the consumer with a bounded queue of
// size values. strategy decides what happens when the queue is full.
func Buffer[T any](p *Pipeline[T], size int, strategy stage.OverflowStrategy) *Pipeline[T] {
	if _, err := stage.NewBuffer[T](size, strategy); err != nil {
		return broken[T, T](p, err)
	}
	return then[T, T](p, func(context.Context) []stage.Op {
		b, _ := stage.NewBuffer[T](size, strategy)
		return []stage.Op{stage.EraseDetached[T, T]("buffer", b)}
	})
}

// BufferFromConfig is Buffer with the size and overflow strategy of cfg.
func BufferFromConfig[T any](p *Pipeline[T], cfg config.BufferConfig) *Pipeline[T] {
	strategy, err := cfg.Strategy()
	if err != nil {
		return broken[T, T](p, err)
	}
	return Buffer(p, cfg.Size, strategy)
}

// Conflate merges values arriving faster than they are consumed: seed starts
// an aggregate, aggregate folds further values into it until it is pulled.
func Conflate[T, R any](p *Pipeline[T], seed func(T) R, aggregate func(R, T) R) *Pipeline[R] {
	return then[T, R](p, func(context.Context) []stage.Op {
		return []stage.Op{stage.EraseDetached[T, R]("conflate", stage.NewConflate(seed, aggregate))}
	})
}

// Expand serves every pull from the latest value: seed turns a value into a
// state, extrapolate produces one output and the next state. The source is
// pulled once per element: the next value replaces the state as soon as it
// arrives, and the stage completes with the source.
func Expand[T, R, S any](p *Pipeline[T], seed func(T) S, extrapolate func(S) (R, S)) *Pipeline[R] {
	return then[T, R](p, func(context.Context) []stage.Op {
		return []stage.Op{stage.EraseDetached[T, R]("expand", stage.NewExpand(seed, extrapolate))}
	})
}

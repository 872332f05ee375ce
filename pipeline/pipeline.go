package pipeline

import (
	"context"
	"slices"

	"github.com/kbukum/fusekit/errors"
	"github.com/kbukum/fusekit/interpreter"
	"github.com/kbukum/fusekit/observability"
	"github.com/kbukum/fusekit/stage"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Pipeline represents a lazy, pull-based data pipeline.
// No work happens until values are pulled via Collect, Drain, ForEach or Iter.
// Every stage added with Via or a shorthand runs in the same interpreter.
type Pipeline[T any] struct {
	source func(ctx context.Context) Iterator[any]
	flows  []func(ctx context.Context) []stage.Op
	opts   []interpreter.Option
	err    error
}

// Runnable is a fully-configured pipeline ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the pipeline until completion or context cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// --- Constructors ---

// From creates a pipeline from an existing Iterator.
func From[T any](iter Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{
		source: func(_ context.Context) Iterator[any] {
			return &erasedIter[T]{source: iter}
		},
	}
}

// FromSlice creates a pipeline from a slice of values.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{
		source: func(_ context.Context) Iterator[any] {
			return &erasedIter[T]{source: &sliceIter[T]{items: items}}
		},
	}
}

// FromFunc creates a pipeline from a factory that produces an Iterator.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{
		source: func(ctx context.Context) Iterator[any] {
			return &erasedIter[T]{source: fn(ctx)}
		},
	}
}

// Concat joins multiple pipelines sequentially.
// All values from the first pipeline are yielded before the second, etc.
// Each input runs its own stages; the result starts with none.
func Concat[T any](pipelines ...*Pipeline[T]) *Pipeline[T] {
	return &Pipeline[T]{
		source: func(ctx context.Context) Iterator[any] {
			iters := make([]Iterator[T], len(pipelines))
			for i, p := range pipelines {
				iters[i] = p.Iter(ctx)
			}
			return &erasedIter[T]{source: &concatIter[T]{iters: iters}}
		},
	}
}

// Via appends every stage of flow to p. The stages are materialized afresh
// for each run.
func Via[I, O any](p *Pipeline[I], flow stage.Flow[I, O]) *Pipeline[O] {
	return then[I, O](p, func(context.Context) []stage.Op { return flow.Materialize() })
}

// WithOptions returns a copy of p whose runs use opts. Options carry over to
// pipelines derived from the copy.
func (p *Pipeline[T]) WithOptions(opts ...interpreter.Option) *Pipeline[T] {
	return &Pipeline[T]{
		source: p.source,
		flows:  p.flows,
		opts:   slices.Concat(p.opts, opts),
		err:    p.err,
	}
}

// Err returns the error recorded when the pipeline was built, if any.
func (p *Pipeline[T]) Err() error { return p.err }

func then[I, O any](p *Pipeline[I], mk func(ctx context.Context) []stage.Op) *Pipeline[O] {
	return &Pipeline[O]{
		source: p.source,
		flows:  append(slices.Clip(p.flows), mk),
		opts:   p.opts,
		err:    p.err,
	}
}

// broken carries a construction error to every terminal of the pipeline.
func broken[I, O any](p *Pipeline[I], err error) *Pipeline[O] {
	out := then[I, O](p, func(context.Context) []stage.Op { return nil })
	if out.err == nil {
		out.err = err
	}
	return out
}

// --- Terminals ---

// Drain creates a Runnable that pulls all values and sends each to sink.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			return p.run(ctx, sink)
		},
	}
}

// Collect runs the pipeline and returns all values as a slice.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	var result []T
	err := p.run(ctx, func(_ context.Context, val T) error {
		result = append(result, val)
		return nil
	})
	return result, err
}

// ForEach pulls all values and calls fn for each. Convenience wrapper around Drain.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	return Drain(p, fn).Run(ctx)
}

// Iter returns the raw Iterator for this pipeline. The caller must Close() it.
// Unlike the other terminals, Iter does not open a pipeline.run span.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.iterator(ctx)
}

// run drives the pipeline to completion inside a pipeline.run span.
func (p *Pipeline[T]) run(ctx context.Context, sink func(context.Context, T) error) error {
	s := interpreter.NewSettings(p.opts...)
	ctx, r := observability.StartRun(ctx, s.Name, s.RunID, s.Metrics)

	elements := 0
	err := func() error {
		iter := p.iterator(ctx, interpreter.WithRunID(s.RunID))
		defer iter.Close()
		for {
			val, ok, err := iter.Next(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			elements++
			if err := sink(ctx, val); err != nil {
				return err
			}
		}
	}()

	status := observability.StatusOK
	switch {
	case err == nil:
	case errors.IsCode(err, errors.ErrCodeCancelled):
		status = observability.StatusCancelled
	default:
		status = observability.StatusError
	}
	r.End(ctx, status, elements, err)
	return err
}

func (p *Pipeline[T]) iterator(ctx context.Context, extra ...interpreter.Option) Iterator[T] {
	if p.err != nil {
		return &errIter[T]{err: p.err}
	}
	var ops []stage.Op
	for _, mk := range p.flows {
		ops = append(ops, mk(ctx)...)
	}
	opts := slices.Concat(p.opts, extra, []interpreter.Option{interpreter.WithContext(ctx)})
	return newFusedIter[T](p.source(ctx), ops, opts)
}

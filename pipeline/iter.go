package pipeline

import (
	"context"

	"github.com/kbukum/fusekit/errors"
	"github.com/kbukum/fusekit/interpreter"
	"github.com/kbukum/fusekit/stage"
)

// fusedIter runs a chain of ops in one interpreter on top of a source
// iterator. Each Next requests one element and feeds the source until the
// chain emits, completes or fails. An upstream request still open after the
// chain emitted is served once more before Next returns, so detached stages
// see new elements while they answer pulls on their own.
type fusedIter[T any] struct {
	src Iterator[any]
	in  *interpreter.Interpreter

	out    []any
	done   bool
	err    error
	closed bool
}

func newFusedIter[T any](src Iterator[any], ops []stage.Op, opts []interpreter.Option) *fusedIter[T] {
	it := &fusedIter[T]{src: src}
	// requests are served by Next; the source is released by Close
	up := interpreter.UpstreamFuncs{}
	down := interpreter.DownstreamFuncs{
		NextFn:     func(elem any) { it.out = append(it.out, elem) },
		CompleteFn: func() { it.done = true },
		ErrorFn:    func(err error) { it.err = err },
	}
	it.in = interpreter.New(ops, up, down, opts...)
	return it
}

func (it *fusedIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.err != nil {
		return zero, false, it.err
	}
	if it.done && len(it.out) == 0 {
		return zero, false, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, false, it.cancel(err)
	}

	it.in.RequestOne()
	fed := false
	for {
		if len(it.out) > 0 && (fed || !it.in.UpstreamPending()) {
			break
		}
		if it.err != nil {
			return zero, false, it.err
		}
		if len(it.out) == 0 {
			if it.done {
				return zero, false, nil
			}
			if !it.in.UpstreamPending() {
				it.err = errors.Stalled(it.in.Name())
				it.in.Cancel()
				return zero, false, it.err
			}
		}
		if err := ctx.Err(); err != nil {
			return zero, false, it.cancel(err)
		}
		it.feed(ctx)
		fed = true
	}

	elem := it.out[0]
	it.out[0] = nil
	it.out = it.out[1:]
	return cast[T](elem), true, nil
}

// feed reads one element from the source into the interpreter.
func (it *fusedIter[T]) feed(ctx context.Context) {
	val, ok, err := it.src.Next(ctx)
	switch {
	case err != nil:
		it.in.OnError(err)
	case !ok:
		it.in.OnComplete()
	default:
		it.in.OnNext(val)
	}
}

func (it *fusedIter[T]) cancel(cause error) error {
	it.err = errors.Cancelled(cause)
	it.out = nil
	it.in.Cancel()
	return it.err
}

func (it *fusedIter[T]) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if !it.in.IsCompleted() {
		it.in.Cancel()
	}
	return it.src.Close()
}

// cast recovers a typed element; nil stands for the zero value of interface types.
func cast[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// erasedIter adapts a typed source for the interpreter boundary.
type erasedIter[T any] struct {
	source Iterator[T]
}

func (it *erasedIter[T]) Next(ctx context.Context) (any, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	return val, true, nil
}

func (it *erasedIter[T]) Close() error { return it.source.Close() }

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type concatIter[T any] struct {
	iters []Iterator[T]
	index int
}

func (it *concatIter[T]) Next(ctx context.Context) (T, bool, error) {
	for it.index < len(it.iters) {
		val, ok, err := it.iters[it.index].Next(ctx)
		if err != nil {
			var zero T
			return zero, false, err
		}
		if ok {
			return val, true, nil
		}
		it.index++
	}
	var zero T
	return zero, false, nil
}

func (it *concatIter[T]) Close() error {
	var first error
	for _, iter := range it.iters {
		if err := iter.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// errIter yields err on every Next.
type errIter[T any] struct {
	err error
}

func (it *errIter[T]) Next(_ context.Context) (T, bool, error) {
	var zero T
	return zero, false, it.err
}

func (it *errIter[T]) Close() error { return nil }

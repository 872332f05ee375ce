package stage

import (
	"github.com/kbukum/fusekit/errors"
	"github.com/kbukum/fusekit/ringbuffer"
)

// Buffer decouples upstream from downstream with a bounded queue. Upstream
// keeps being pulled while there is room; what happens when the queue is
// full is decided by the OverflowStrategy.
type Buffer[T any] struct {
	buf      *ringbuffer.Buffer[T]
	strategy OverflowStrategy
}

// NewBuffer creates a Buffer stage. capacity must be positive.
func NewBuffer[T any](capacity int, strategy OverflowStrategy) (*Buffer[T], error) {
	if capacity < 1 {
		return nil, errors.InvalidInput("capacity", "buffer capacity must be positive")
	}
	if strategy > Error {
		return nil, errors.InvalidInput("overflow_strategy", "unknown overflow strategy")
	}
	return &Buffer[T]{buf: ringbuffer.New[T](capacity), strategy: strategy}, nil
}

// Len returns the number of buffered elements.
func (s *Buffer[T]) Len() int { return s.buf.Len() }

func (s *Buffer[T]) OnPush(elem T, ctx DetachedContext[T]) Directive {
	if ctx.IsHolding() {
		return ctx.PushAndPull(elem)
	}
	return s.enqueue(elem, ctx)
}

func (s *Buffer[T]) OnPull(ctx DetachedContext[T]) Directive {
	switch {
	case ctx.IsFinishing():
		elem := s.buf.Dequeue()
		if s.buf.IsEmpty() {
			return ctx.PushAndFinish(elem)
		}
		return ctx.Push(elem)
	case ctx.IsHolding():
		return ctx.PushAndPull(s.buf.Dequeue())
	case s.buf.IsEmpty():
		return ctx.Hold()
	default:
		return ctx.Push(s.buf.Dequeue())
	}
}

func (s *Buffer[T]) OnUpstreamFinish(ctx DetachedContext[T]) Termination {
	if s.buf.IsEmpty() {
		return ctx.PropagateFinish()
	}
	return ctx.AbsorbTermination()
}

func (s *Buffer[T]) enqueue(elem T, ctx DetachedContext[T]) Directive {
	switch s.strategy {
	case DropHead:
		if s.buf.IsFull() {
			s.buf.DropHead()
		}
	case DropTail:
		if s.buf.IsFull() {
			s.buf.DropTail()
		}
	case DropBuffer:
		if s.buf.IsFull() {
			s.buf.Clear()
		}
	case Backpressure:
		s.buf.Enqueue(elem)
		if s.buf.IsFull() {
			return ctx.Hold()
		}
		return ctx.Pull()
	case Error:
		if s.buf.IsFull() {
			return ctx.Fail(errors.BufferOverflow(s.buf.Cap()))
		}
	}
	s.buf.Enqueue(elem)
	return ctx.Pull()
}

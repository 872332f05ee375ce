package ringbuffer

// Buffer is a bounded FIFO queue with a capacity fixed at construction.
type Buffer[T any] struct {
	items []T
	head  int
	len   int
}

// New creates an empty buffer holding at most capacity elements.
// It panics if capacity is not positive.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic("ringbuffer: capacity must be positive")
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int { return len(b.items) }

// Len returns the number of buffered elements.
func (b *Buffer[T]) Len() int { return b.len }

// IsFull reports whether no further element can be enqueued.
func (b *Buffer[T]) IsFull() bool { return b.len == len(b.items) }

// IsEmpty reports whether the buffer holds no element.
func (b *Buffer[T]) IsEmpty() bool { return b.len == 0 }

// Enqueue appends v at the tail. It panics if the buffer is full.
func (b *Buffer[T]) Enqueue(v T) {
	if b.IsFull() {
		panic("ringbuffer: enqueue on full buffer")
	}
	b.items[b.index(b.len)] = v
	b.len++
}

// Dequeue removes and returns the oldest element. It panics if the buffer is empty.
func (b *Buffer[T]) Dequeue() T {
	if b.IsEmpty() {
		panic("ringbuffer: dequeue on empty buffer")
	}
	v := b.items[b.head]
	var zero T
	b.items[b.head] = zero
	b.head = b.index(1)
	b.len--
	return v
}

// Peek returns the oldest element without removing it.
func (b *Buffer[T]) Peek() (T, bool) {
	if b.IsEmpty() {
		var zero T
		return zero, false
	}
	return b.items[b.head], true
}

// DropHead discards the oldest element, if any.
func (b *Buffer[T]) DropHead() {
	if b.IsEmpty() {
		return
	}
	b.Dequeue()
}

// DropTail discards the newest element, if any.
func (b *Buffer[T]) DropTail() {
	if b.IsEmpty() {
		return
	}
	var zero T
	b.items[b.index(b.len-1)] = zero
	b.len--
}

// Clear discards every element.
func (b *Buffer[T]) Clear() {
	clear(b.items)
	b.head = 0
	b.len = 0
}

// Slice returns the buffered elements, oldest first, in a new slice.
func (b *Buffer[T]) Slice() []T {
	out := make([]T, b.len)
	for i := range b.len {
		out[i] = b.items[b.index(i)]
	}
	return out
}

func (b *Buffer[T]) index(offset int) int {
	return (b.head + offset) % len(b.items)
}

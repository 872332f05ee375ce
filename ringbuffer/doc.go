// Package ringbuffer provides a fixed-capacity FIFO buffer backed by a
// circular slice.
//
// The buffer is not safe for concurrent use; it is owned by a single stage
// and mutated only from that stage's handlers.
//
//	buf := ringbuffer.New[int](4)
//	buf.Enqueue(1)
//	buf.Enqueue(2)
//	buf.DropHead()      // discards 1
//	v := buf.Dequeue()  // 2
package ringbuffer

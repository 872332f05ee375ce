package stage

// Completed ends the stream on the first event from either side.
type Completed[T any] struct {
	Base[T]
}

// NewCompleted creates a Completed stage.
func NewCompleted[T any]() *Completed[T] { return &Completed[T]{} }

func (*Completed[T]) OnPush(_ T, ctx Context[T]) Directive { return ctx.Finish() }

func (*Completed[T]) OnPull(ctx Context[T]) Directive { return ctx.Finish() }

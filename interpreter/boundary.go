package interpreter

// Upstream is the element source in front of the first stage.
type Upstream interface {
	// Request asks for exactly one element, delivered later via OnNext.
	Request()
	// Cancel tells the source no more elements are wanted.
	Cancel()
}

// Downstream is the consumer behind the last stage.
type Downstream interface {
	OnNext(elem any)
	OnComplete()
	OnError(err error)
}

// UpstreamFuncs adapts plain functions to Upstream. Nil fields are no-ops.
type UpstreamFuncs struct {
	RequestFn func()
	CancelFn  func()
}

func (u UpstreamFuncs) Request() {
	if u.RequestFn != nil {
		u.RequestFn()
	}
}

func (u UpstreamFuncs) Cancel() {
	if u.CancelFn != nil {
		u.CancelFn()
	}
}

// DownstreamFuncs adapts plain functions to Downstream. Nil fields are no-ops.
type DownstreamFuncs struct {
	NextFn     func(elem any)
	CompleteFn func()
	ErrorFn    func(err error)
}

func (d DownstreamFuncs) OnNext(elem any) {
	if d.NextFn != nil {
		d.NextFn(elem)
	}
}

func (d DownstreamFuncs) OnComplete() {
	if d.CompleteFn != nil {
		d.CompleteFn()
	}
}

func (d DownstreamFuncs) OnError(err error) {
	if d.ErrorFn != nil {
		d.ErrorFn(err)
	}
}

// Package lifecycle runs an instance's work loop on its own goroutine with
// idempotent start and close.
package lifecycle

type Instance interface {
	Release()
	String() string
}

// AsyncInstance is driven by an AsyncManager. Step is called repeatedly
// until it returns an error; BreakError ends the loop without a failure.
// Stopped is called once when the loop ends, with the failure or nil.
type AsyncInstance interface {
	Instance
	Step(stopCh <-chan struct{}) error
	Stopped(err error)
}

type Manager[T Instance] interface {
	Start(func(T) error) error
	Close()
}

type AsyncManager[T AsyncInstance] interface {
	Manager[T]
	Done() <-chan struct{}
}

type BreakError struct{}

func (*BreakError) Error() string {
	return "break"
}

type StartedAlreadyError struct{}

func (*StartedAlreadyError) Error() string {
	return "started already"
}

type StartedAfterCloseError struct{}

func (*StartedAfterCloseError) Error() string {
	return "start after close"
}

// PanicError carries a panic recovered from Step.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return "step panicked"
}

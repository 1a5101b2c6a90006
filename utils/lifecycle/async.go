package lifecycle

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/ugparu/isobmff/utils/logger"
)

type asyncManager[T AsyncInstance] struct {
	instance           T
	stopChan, doneChan chan struct{}
	startOnce          sync.Once
	closeOnce          sync.Once
}

func NewAsyncManager[T AsyncInstance](instance T) AsyncManager[T] {
	return &asyncManager[T]{
		instance: instance,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start runs startFunc and, when it succeeds, the Step loop. Only the first
// call has any effect.
func (m *asyncManager[T]) Start(startFunc func(T) error) (err error) {
	select {
	case <-m.stopChan:
		return &StartedAfterCloseError{}
	default:
		err = &StartedAlreadyError{}
	}
	m.startOnce.Do(func() {
		logger.Debugf(m.instance, "starting")
		if err = startFunc(m.instance); err != nil {
			m.instance.Stopped(err)
			close(m.doneChan)
			return
		}
		go m.process()
	})
	return err
}

func (m *asyncManager[T]) step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return m.instance.Step(m.stopChan)
}

func (m *asyncManager[T]) process() {
	defer close(m.doneChan)

	for {
		err := m.step()
		if err == nil {
			continue
		}
		var brk *BreakError
		if errors.As(err, &brk) {
			logger.Debug(m.instance, "loop finished")
			m.instance.Stopped(nil)
			return
		}
		var p *PanicError
		if errors.As(err, &p) {
			logger.Errorf(m.instance, "recovered panic: %v", p.Value)
			logger.Errorf(m.instance, "%s", p.Stack)
			err = fmt.Errorf("%w: %v", err, p.Value)
		} else {
			logger.Warningf(m.instance, "loop stopped: %v", err)
		}
		m.instance.Stopped(err)
		return
	}
}

// Close stops the loop, waits for it to exit and releases the instance.
func (m *asyncManager[T]) Close() {
	m.closeOnce.Do(func() {
		close(m.stopChan)
		m.startOnce.Do(func() {
			m.instance.Stopped(nil)
			close(m.doneChan)
		})
		<-m.doneChan
		m.instance.Release()
	})
}

func (m *asyncManager[T]) Done() <-chan struct{} {
	return m.doneChan
}

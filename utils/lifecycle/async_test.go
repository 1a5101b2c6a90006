package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type worker struct {
	steps    int
	fail     error
	panicAt  int
	stopErr  error
	stopped  int
	released int
}

func (*worker) String() string { return "worker" }

func (w *worker) Release() { w.released++ }

func (w *worker) Stopped(err error) {
	w.stopped++
	w.stopErr = err
}

func (w *worker) Step(stopCh <-chan struct{}) error {
	w.steps++
	if w.panicAt != 0 && w.steps == w.panicAt {
		panic("boom")
	}
	if w.fail != nil {
		return w.fail
	}
	select {
	case <-stopCh:
		return &BreakError{}
	case <-time.After(time.Millisecond):
		return nil
	}
}

func waitDone(t *testing.T, m AsyncManager[*worker]) {
	t.Helper()
	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.FailNow()
	}
}

func TestAsyncStart(t *testing.T) {
	t.Parallel()

	w := &worker{}
	manager := NewAsyncManager(w)
	require.NoError(t, manager.Start(func(*worker) error { return nil }))
	manager.Close()

	require.Equal(t, 1, w.stopped)
	require.NoError(t, w.stopErr)
	require.Equal(t, 1, w.released)
}

func TestAsyncErrorStart(t *testing.T) {
	t.Parallel()

	w := &worker{}
	manager := NewAsyncManager(w)
	require.Error(t, manager.Start(func(*worker) error { return errors.New("no input") }))
	waitDone(t, manager)
	require.Error(t, w.stopErr)
	require.Zero(t, w.steps)
}

func TestAsyncStartAfterStart(t *testing.T) {
	t.Parallel()

	manager := NewAsyncManager(&worker{})
	require.NoError(t, manager.Start(func(*worker) error { return nil }))
	defer manager.Close()

	err := manager.Start(func(*worker) error { return nil })
	var already *StartedAlreadyError
	require.ErrorAs(t, err, &already)
}

func TestAsyncCloseBeforeStart(t *testing.T) {
	t.Parallel()

	w := &worker{}
	manager := NewAsyncManager(w)
	manager.Close()
	manager.Close()
	require.Equal(t, 1, w.stopped)
	require.Equal(t, 1, w.released)

	err := manager.Start(func(*worker) error { return nil })
	var afterClose *StartedAfterCloseError
	require.ErrorAs(t, err, &afterClose)
}

func TestAsyncStepError(t *testing.T) {
	t.Parallel()

	w := &worker{fail: errors.New("bad box")}
	manager := NewAsyncManager(w)
	require.NoError(t, manager.Start(func(*worker) error { return nil }))
	waitDone(t, manager)
	require.EqualError(t, w.stopErr, "bad box")
	require.Equal(t, 1, w.steps)
}

func TestAsyncStepPanic(t *testing.T) {
	t.Parallel()

	w := &worker{panicAt: 2}
	manager := NewAsyncManager(w)
	require.NoError(t, manager.Start(func(*worker) error { return nil }))
	waitDone(t, manager)

	var p *PanicError
	require.ErrorAs(t, w.stopErr, &p)
	require.Equal(t, "boom", p.Value)
}

package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_CompleteDeliversToContinuation(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	f := NewFuture[string](l)
	var got string
	f.OnComplete(func(v string, err error) {
		require.NoError(t, err)
		got = v
	})

	f.Complete("payload")
	assert.Empty(t, got, "continuations must not run inline")
	l.RunIteration()
	assert.Equal(t, "payload", got)
}

func TestFuture_OnCompleteAfterDoneStillDeferred(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	f := NewFuture[int](l)
	f.Complete(7)

	ran := false
	f.OnComplete(func(v int, err error) { ran = true })
	assert.False(t, ran, "late registration must still go through the ready queue")
	l.RunIteration()
	assert.True(t, ran)
}

func TestFuture_CancelResumesWaiter(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	f := l.Sleep(time.Hour)
	var got error
	f.OnComplete(func(_ VirtualTime, err error) { got = err })

	f.Cancel()
	f.Cancel() // double cancellation is a no-op

	l.RunIteration()
	assert.ErrorIs(t, got, ErrCanceled)
	assert.ErrorIs(t, f.Err(), ErrCanceled)

	// The backing timer was detached, so nothing remains scheduled.
	assert.ErrorIs(t, l.Advance(), ErrDeadlock)
}

func TestFuture_CompleteAfterCancelIgnored(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	f := NewFuture[int](l)
	f.Cancel()
	f.Complete(42)

	_, err := f.Result()
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestAwait_ReturnsResult(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	f := NewFuture[int](l)
	l.CallAfter(time.Millisecond, func() { f.Complete(99) })

	v, err := Await(l, f)
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestAwait_SurfacesDeadlock(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	f := NewFuture[int](l)
	_, err := Await(l, f)
	assert.ErrorIs(t, err, ErrDeadlock)
}

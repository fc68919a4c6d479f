package reactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timerWaitTask polls a single Timer to completion, recording elapsed time.
type timerWaitTask struct {
	timer   *Timer
	started time.Time
	elapsed time.Duration
	done    bool
}

func (w *timerWaitTask) Poll(cx *Context) (Poll, error) {
	if w.started.IsZero() {
		w.started = time.Now()
	}
	p, err := w.timer.Poll(cx)
	if err != nil || p == Pending {
		return Pending, err
	}
	w.elapsed = time.Since(w.started)
	w.done = true
	return Complete, nil
}

func TestTimerFiresWithinWindow(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	task := &timerWaitTask{timer: NewTimer(50 * time.Millisecond)}
	require.NoError(t, r.Run(task))
	assert.True(t, task.done)
	assert.GreaterOrEqual(t, task.elapsed, 45*time.Millisecond)
	assert.Less(t, task.elapsed, 200*time.Millisecond)
}

func TestTimerCancelLeavesNoTraceInHeap(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	cx := &Context{r: r}
	main := &countdownTask{remaining: 1}
	r.current = mainTaskID

	timer := NewTimer(500 * time.Millisecond)
	_, _ = timer.Poll(cx) // arm it
	require.Equal(t, 1, r.heap.data.Len())
	timer.Cancel(cx)
	assert.Equal(t, 0, r.heap.data.Len())

	require.NoError(t, r.Run(main))
}

func TestPeriodicTimerTicksRepeatedly(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	ticks := 0
	periodic := NewPeriodicTimer(10 * time.Millisecond)
	main := TaskFunc(func(cx *Context) (Poll, error) {
		sp, _, err := periodic.Poll(cx)
		if err != nil {
			return Complete, err
		}
		if sp == StreamReady {
			ticks++
			if ticks >= 3 {
				periodic.Cancel(cx)
				return Complete, nil
			}
		}
		return Pending, nil
	})

	require.NoError(t, r.Run(main))
	assert.GreaterOrEqual(t, ticks, 3)
}

func TestTwoConcurrentTimersOnlyFirstFires(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	short := &timerWaitTask{timer: NewTimer(20 * time.Millisecond)}
	longTimer := NewTimer(2 * time.Second)

	main := TaskFunc(func(cx *Context) (Poll, error) {
		p, err := short.Poll(cx)
		if err != nil {
			return Complete, err
		}
		if p == Pending {
			// Keep the long timer armed but never let it complete; main
			// exits as soon as the short one does.
			_, _ = longTimer.Poll(cx)
			return Pending, nil
		}
		longTimer.Cancel(cx)
		return Complete, nil
	})

	require.NoError(t, r.Run(main))
	assert.True(t, short.done)
	assert.Less(t, short.elapsed, 200*time.Millisecond)
}

func TestWheelRoundToSecsHalfUp(t *testing.T) {
	assert.Equal(t, time.Second, roundToSecs(400*time.Millisecond))
	assert.Equal(t, 2*time.Second, roundToSecs(1500*time.Millisecond))
	assert.Equal(t, time.Second, roundToSecs(0))
}

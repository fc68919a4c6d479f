package reactor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countdownTask completes after n polls, counting how many times it ran.
type countdownTask struct {
	remaining int
	polls     int
}

func (c *countdownTask) Poll(cx *Context) (Poll, error) {
	c.polls++
	c.remaining--
	if c.remaining <= 0 {
		return Complete, nil
	}
	return Pending, nil
}

func TestRunDrivesMainToCompletion(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	main := &countdownTask{remaining: 1}
	require.NoError(t, r.Run(main))
	assert.Equal(t, 1, main.polls)
}

func TestSpawnEagerPollDoesNotLeakSlab(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	spawned := false
	main := TaskFunc(func(cx *Context) (Poll, error) {
		if !spawned {
			spawned = true
			// Synchronously-ready: Spawn must not leave a slab entry behind.
			cx.r.Spawn(cx, &countdownTask{remaining: 1})
			assert.Equal(t, 0, r.tasks.Len())
		}
		return Complete, nil
	})

	require.NoError(t, r.Run(main))
}

// gateReleaseTask holds a gate open until its timer fires, then releases it.
type gateReleaseTask struct {
	timer *Timer
}

func (g *gateReleaseTask) Poll(cx *Context) (Poll, error) {
	p, err := g.timer.Poll(cx)
	if err != nil || p == Pending {
		return Pending, err
	}
	cx.r.LeaveGate()
	return Complete, nil
}

// mainThatGates enters a gate and spawns its release on its first poll,
// then completes immediately — exercising EnterGate's "extend past
// main-task completion" contract.
type mainThatGates struct{ started bool }

func (m *mainThatGates) Poll(cx *Context) (Poll, error) {
	if !m.started {
		m.started = true
		if err := cx.r.EnterGate(); err != nil {
			return Complete, err
		}
		cx.r.Spawn(cx, &gateReleaseTask{timer: NewTimer(20 * time.Millisecond)})
	}
	return Complete, nil
}

func TestGateKeepsLoopAliveUntilLeave(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	start := time.Now()
	require.NoError(t, r.Run(&mainThatGates{}))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.Equal(t, 0, r.gate)
}

func TestGateRejectsEntryAfterMainCompletes(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	require.NoError(t, r.Run(&countdownTask{remaining: 1}))
	assert.ErrorIs(t, r.EnterGate(), ErrGateClosed)
}

func TestSpawnedTaskErrorDoesNotKillReactor(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	boom := errors.New("boom")
	main := TaskFunc(func(cx *Context) (Poll, error) {
		cx.r.Spawn(cx, TaskFunc(func(cx *Context) (Poll, error) {
			return Complete, boom
		}))
		return Complete, nil
	})

	require.NoError(t, r.Run(main))
}

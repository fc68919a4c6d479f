package spsc

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-nexio/reactor"
)

// drainTask polls a Receiver to StreamDone, collecting every value seen.
type drainTask[T any] struct {
	rx  *Receiver[T]
	got []T
}

func (d *drainTask[T]) Poll(cx *reactor.Context) (reactor.Poll, error) {
	for {
		sp, v, err := d.rx.Poll(cx)
		if err != nil {
			return reactor.Complete, err
		}
		switch sp {
		case reactor.StreamReady:
			d.got = append(d.got, v)
		case reactor.StreamDone:
			return reactor.Complete, nil
		case reactor.StreamPending:
			return reactor.Pending, nil
		}
	}
}

func TestChannelDeliversFromOtherGoroutine(t *testing.T) {
	r, err := reactor.New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	tx, rx, err := New[int](4)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			_, _ = tx.Send(i)
			time.Sleep(time.Millisecond)
		}
		tx.Close()
	}()

	task := &drainTask[int]{rx: rx}
	require.NoError(t, r.Run(task))
	wg.Wait()

	assert.Len(t, task.got, 10)
	for i, v := range task.got {
		assert.Equal(t, i, v)
	}
}

func TestChannelSendOnClosedErrors(t *testing.T) {
	tx, _, err := New[int](1)
	require.NoError(t, err)
	tx.Close()
	_, err = tx.Send(1)
	assert.ErrorIs(t, err, ErrSendOnClosed)
}

func TestChannelFullSendReturnsFalse(t *testing.T) {
	tx, _, err := New[int](1)
	require.NoError(t, err)
	ok, err := tx.Send(1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = tx.Send(2)
	require.NoError(t, err)
	assert.False(t, ok)
}

package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(time.Minute, nil)
	assert.Error(t, err)

	_, err = New(500*time.Millisecond, func() {})
	assert.Error(t, err)

	task, err := New(time.Minute, func() {})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, task.Interval())
	assert.False(t, task.Running())
}

func TestTask_RunsImmediately(t *testing.T) {
	var calls atomic.Int32
	task, err := New(time.Hour, func() { calls.Add(1) })
	require.NoError(t, err)

	require.NoError(t, task.Start(context.Background()))
	defer task.Stop()

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, task.Running())
}

func TestTask_Ticks(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the scheduler")
	}

	var calls atomic.Int32
	task, err := New(time.Second, func() { calls.Add(1) })
	require.NoError(t, err)

	require.NoError(t, task.Start(context.Background()))
	defer task.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
}

func TestTask_DoubleStart(t *testing.T) {
	task, err := New(time.Hour, func() {})
	require.NoError(t, err)

	require.NoError(t, task.Start(context.Background()))
	defer task.Stop()

	err = task.Start(context.Background())
	assert.True(t, errors.Is(err, ErrAlreadyRunning))
}

func TestTask_StopIsIdempotent(t *testing.T) {
	task, err := New(time.Hour, func() {})
	require.NoError(t, err)

	task.Stop()

	require.NoError(t, task.Start(context.Background()))
	task.Stop()
	task.Stop()
	assert.False(t, task.Running())

	// A stopped task can be started again.
	require.NoError(t, task.Start(context.Background()))
	assert.True(t, task.Running())
	task.Stop()
}

func TestTask_NoCallsAfterStop(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the scheduler")
	}

	var calls atomic.Int32
	task, err := New(time.Second, func() { calls.Add(1) })
	require.NoError(t, err)

	require.NoError(t, task.Start(context.Background()))
	task.Stop()
	after := calls.Load()

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestTask_ContextCancelStopsSchedule(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the scheduler")
	}

	var calls atomic.Int32
	task, err := New(time.Second, func() { calls.Add(1) })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, task.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !task.Running() }, time.Second, 10*time.Millisecond)

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	// Stop after a context-driven shutdown is a no-op.
	task.Stop()

	// A task stopped by its context can be started again.
	require.NoError(t, task.Start(context.Background()))
	assert.True(t, task.Running())
	assert.Equal(t, int32(2), calls.Load())
	task.Stop()
	assert.False(t, task.Running())
}

func TestToFields(t *testing.T) {
	fields := toFields([]interface{}{"entry", 3, "next", "soon", "dangling"})
	assert.Equal(t, 3, fields["entry"])
	assert.Equal(t, "soon", fields["next"])
	assert.Len(t, fields, 2)
	assert.Nil(t, toFields(nil))
}

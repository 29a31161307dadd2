// Package refresh runs a function on a fixed interval with an explicit start/stop
// lifecycle. lovetrack uses it to recompute the displayed duration while a view is open.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pfrederiksen/lovetrack/internal/logger"
)

// MinInterval is the shortest supported interval. cron schedules have one-second resolution.
const MinInterval = time.Second

// ErrAlreadyRunning is returned by Start when the task is already running.
var ErrAlreadyRunning = errors.New("refresh task already running")

// Task calls fn once on Start and then every interval until Stop.
type Task struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func()
	cron     *cron.Cron
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a stopped task.
func New(interval time.Duration, fn func()) (*Task, error) {
	if fn == nil {
		return nil, fmt.Errorf("refresh function is required")
	}
	if interval < MinInterval {
		return nil, fmt.Errorf("refresh interval %s is below the minimum of %s", interval, MinInterval)
	}
	return &Task{interval: interval, fn: fn}, nil
}

// Interval returns the configured interval.
func (t *Task) Interval() time.Duration {
	return t.interval
}

// Running reports whether the task is started.
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cron != nil
}

// Start runs fn immediately and schedules it every interval. The task stops on its own
// when ctx is cancelled. Ticks that arrive while fn is still running are skipped.
func (t *Task) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cron != nil {
		return ErrAlreadyRunning
	}

	t.fn()

	cl := cronLogger{}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(cron.Every(t.interval), cron.FuncJob(t.fn))
	c.Start()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cron = c
	t.cancel = cancel
	t.done = done

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		cancel()
		close(done)

		// Clear the handles unless Stop or a later Start already replaced them.
		t.mu.Lock()
		if t.done == done {
			t.cron = nil
			t.cancel = nil
			t.done = nil
		}
		t.mu.Unlock()
	}()

	logger.Debug("Refresh task started", logger.Fields{"interval": t.interval.String()})
	return nil
}

// Stop cancels the schedule and waits for a running fn to return. Calling Stop on a
// stopped task does nothing.
func (t *Task) Stop() {
	t.mu.Lock()
	if t.cron == nil {
		t.mu.Unlock()
		return
	}
	cancel, done := t.cancel, t.done
	t.cron = nil
	t.cancel = nil
	t.done = nil
	t.mu.Unlock()

	cancel()
	<-done
	logger.Debug("Refresh task stopped", nil)
}

// cronLogger forwards cron's internal logging to the package logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, toFields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, toFields(keysAndValues), err)
}

func toFields(keysAndValues []interface{}) logger.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(logger.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}

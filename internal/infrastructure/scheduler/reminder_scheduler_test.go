package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReminder struct {
	mu      sync.Mutex
	calls   []time.Time
	started chan struct{}
	release chan struct{}
	err     error
}

func (f *fakeReminder) SendPaymentReminders(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, now)
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	return 1, f.err
}

func TestNewReminderScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewReminderScheduler("not a cron", &fakeReminder{})
	assert.Error(t, err)
}

func TestReminderScheduler_Sweep(t *testing.T) {
	fixed := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	rem := &fakeReminder{}
	s, err := NewReminderScheduler("0 9 * * *", rem)
	require.NoError(t, err)
	s.now = func() time.Time { return fixed }

	assert.True(t, s.sweep())
	require.Len(t, rem.calls, 1)
	assert.Equal(t, fixed, rem.calls[0])
}

func TestReminderScheduler_SweepErrorIsLogged(t *testing.T) {
	s, err := NewReminderScheduler("@hourly", &fakeReminder{err: errors.New("dynamodb down")})
	require.NoError(t, err)

	assert.True(t, s.sweep())
	assert.False(t, s.running.Load())
}

func TestReminderScheduler_SkipsOverlappingRun(t *testing.T) {
	rem := &fakeReminder{started: make(chan struct{}), release: make(chan struct{})}
	s, err := NewReminderScheduler("@hourly", rem)
	require.NoError(t, err)

	done := make(chan bool)
	go func() { done <- s.sweep() }()
	<-rem.started

	assert.False(t, s.sweep(), "second run must be skipped while the first is in progress")
	close(rem.release)
	assert.True(t, <-done)

	rem.mu.Lock()
	defer rem.mu.Unlock()
	assert.Len(t, rem.calls, 1)
}

func TestReminderScheduler_RunStopsWithContext(t *testing.T) {
	s, err := NewReminderScheduler("@hourly", &fakeReminder{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"translation_desk/internal/usecase"

	"github.com/robfig/cron/v3"
)

const defaultJobTimeout = 10 * time.Minute

// ReminderScheduler runs the payment reminder sweep on a cron schedule. A run that is
// still in progress makes the next tick a no-op.
type ReminderScheduler struct {
	cron     *cron.Cron
	reminder usecase.IReminderUseCase
	running  atomic.Bool
	timeout  time.Duration
	now      func() time.Time
}

func NewReminderScheduler(schedule string, reminder usecase.IReminderUseCase) (*ReminderScheduler, error) {
	s := &ReminderScheduler{
		cron: cron.New(
			cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
		),
		reminder: reminder,
		timeout:  defaultJobTimeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for a running job.
func (s *ReminderScheduler) Run(ctx context.Context) error {
	s.cron.Start()
	log.Printf("[reminder][cron] started entries=%d", len(s.cron.Entries()))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	log.Printf("[reminder][cron] stopped")
	return nil
}

func (s *ReminderScheduler) runOnce() {
	s.sweep()
}

// sweep reports whether the reminder job actually ran.
func (s *ReminderScheduler) sweep() bool {
	if !s.running.CompareAndSwap(false, true) {
		log.Printf("[reminder][cron] previous run still in progress, skipping")
		return false
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	sent, err := s.reminder.SendPaymentReminders(ctx, s.now())
	if err != nil {
		log.Printf("[reminder][cron] run failed err=%v", err)
		return true
	}
	log.Printf("[reminder][cron] run complete sent=%d", sent)
	return true
}

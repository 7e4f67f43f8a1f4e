package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/usecase/interfaces"
)

// IReminderUseCase nudges clients whose accepted quote has not been paid yet.

type IReminderUseCase interface {
	SendPaymentReminders(ctx context.Context, now time.Time) (int, error)
}

type ReminderUseCase struct {
	repo      interfaces.IQuoteRepository
	notify    dispatcher
	olderThan time.Duration
}

var _ IReminderUseCase = (*ReminderUseCase)(nil)

func NewReminderUseCase(repo interfaces.IQuoteRepository, notifier interfaces.INotifier, olderThan time.Duration) *ReminderUseCase {
	if olderThan <= 0 {
		olderThan = 72 * time.Hour
	}
	return &ReminderUseCase{
		repo:      repo,
		notify:    dispatcher{notifier: notifier},
		olderThan: olderThan,
	}
}

// SendPaymentReminders emails the owner of every live awaiting_payment quote untouched
// for longer than the threshold. It returns the number of reminders handed to the notifier.
func (u *ReminderUseCase) SendPaymentReminders(ctx context.Context, now time.Time) (int, error) {
	filter := entities.QuoteFilter{
		Status:        entities.QuoteStatusAwaitingPayment,
		UpdatedBefore: now.Add(-u.olderThan),
	}
	quotes, err := u.repo.FindByFilter(ctx, filter, entities.QuoteSort{Field: entities.SortByUpdatedAt, Ascending: true})
	if err != nil {
		log.Printf("[reminder][usecase] failed listing quotes err=%v", err)
		return 0, fmt.Errorf("%w: list awaiting payment: %w", ErrUpstreamFailure, err)
	}

	sent := 0
	for _, q := range quotes {
		if ctx.Err() != nil {
			break
		}
		if u.notify.paymentReminder(ctx, q) {
			sent++
		}
	}
	log.Printf("[reminder][usecase] payment reminders candidates=%d sent=%d", len(quotes), sent)
	return sent, nil
}

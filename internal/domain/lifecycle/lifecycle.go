// Package lifecycle holds the quote workflow rules.
//
// Status graph (forward progress, any later stage may be chosen by an admin):
//
//	submitted ─► reviewed ─► quoted ─► awaiting_payment ─► paid ─► in_progress ─► complete
//	    │            │          │              │              │           │
//	    └────────────┴──────────┴──────────────┴──────────────┴───────────┴──► cancelled
//
// Payment graph:
//
//	pending ─► paid
//	pending ─► failed ─► pending
//
// complete, cancelled and paid (payment) are terminal.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"translation_desk/internal/domain/entities"
)

var (
	ErrIllegalTransition = errors.New("illegal transition")
	ErrNotPermitted      = errors.New("actor not permitted")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrEmptyChange       = errors.New("no change requested")
	ErrUnknownStatus     = errors.New("unknown status")

	ErrCheckoutInProgress = errors.New("checkout in progress")
	ErrCheckoutLost       = errors.New("checkout claim lost")
)

// forwardOrder ranks the non-cancelled statuses.
var forwardOrder = map[entities.QuoteStatus]int{
	entities.QuoteStatusSubmitted:       0,
	entities.QuoteStatusReviewed:        1,
	entities.QuoteStatusQuoted:          2,
	entities.QuoteStatusAwaitingPayment: 3,
	entities.QuoteStatusPaid:            4,
	entities.QuoteStatusInProgress:      5,
	entities.QuoteStatusComplete:        6,
}

var paymentTransitions = map[entities.PaymentStatus][]entities.PaymentStatus{
	entities.PaymentStatusPending: {entities.PaymentStatusPaid, entities.PaymentStatusFailed},
	entities.PaymentStatusFailed:  {entities.PaymentStatusPending},
	// paid has no outgoing transitions
}

// clientTargets are the only statuses a quote owner may request.
var clientTargets = map[entities.QuoteStatus]bool{
	entities.QuoteStatusAwaitingPayment: true,
	entities.QuoteStatusCancelled:       true,
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s entities.QuoteStatus) bool {
	return s == entities.QuoteStatusComplete || s == entities.QuoteStatusCancelled
}

// CanTransition reports whether the status graph allows from → to.
func CanTransition(from, to entities.QuoteStatus) bool {
	if from == to || IsTerminal(from) {
		return false
	}
	if to == entities.QuoteStatusCancelled {
		return true
	}
	fi, ok := forwardOrder[from]
	if !ok {
		return false
	}
	ti, ok := forwardOrder[to]
	if !ok {
		return false
	}
	return ti > fi
}

// CanClientTransition narrows CanTransition to what an owner may do on their own:
// accept a quoted price or cancel.
func CanClientTransition(from, to entities.QuoteStatus) bool {
	switch to {
	case entities.QuoteStatusAwaitingPayment:
		return from == entities.QuoteStatusQuoted
	case entities.QuoteStatusCancelled:
		return CanTransition(from, to)
	}
	return false
}

// CanTransitionPayment reports whether the payment graph allows from → to.
func CanTransitionPayment(from, to entities.PaymentStatus) bool {
	for _, s := range paymentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Change is a requested mutation of a quote's workflow fields. Nil fields are untouched.
type Change struct {
	Status        *entities.QuoteStatus
	PaymentStatus *entities.PaymentStatus
	Price         *float64
}

func (c Change) IsEmpty() bool {
	return c.Status == nil && c.PaymentStatus == nil && c.Price == nil
}

// Authorize checks whether actor may request c on q. It does not look at the
// current state beyond ownership.
func Authorize(actor entities.Actor, q entities.Quote, c Change) error {
	switch actor.Role {
	case entities.RoleAdmin:
		return nil
	case entities.RoleClient:
		if !q.IsOwnedBy(actor.ID) {
			return fmt.Errorf("%w: quote %s is not owned by %s", ErrNotPermitted, q.ID, actor.ID)
		}
		if c.PaymentStatus != nil {
			return fmt.Errorf("%w: clients cannot set payment status", ErrNotPermitted)
		}
		if c.Price != nil {
			return fmt.Errorf("%w: clients cannot set price", ErrNotPermitted)
		}
		if c.Status != nil && !clientTargets[*c.Status] {
			return fmt.Errorf("%w: clients cannot set status %s", ErrNotPermitted, *c.Status)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown role %q", ErrNotPermitted, actor.Role)
	}
}

// Validate checks c against the transition graphs without touching q.
func Validate(actor entities.Actor, q entities.Quote, c Change) error {
	if c.IsEmpty() {
		return ErrEmptyChange
	}

	resulting := q.Status
	if c.Status != nil {
		to := *c.Status
		if !to.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
		}
		allowed := CanTransition(q.Status, to)
		if actor.Role == entities.RoleClient {
			allowed = CanClientTransition(q.Status, to)
		}
		if !allowed {
			return fmt.Errorf("%w: status %s -> %s", ErrIllegalTransition, q.Status, to)
		}
		resulting = to
	}

	if c.PaymentStatus != nil {
		to := *c.PaymentStatus
		if !to.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
		}
		if !CanTransitionPayment(q.PaymentStatus, to) {
			return fmt.Errorf("%w: payment %s -> %s", ErrIllegalTransition, q.PaymentStatus, to)
		}
	}

	if c.Price != nil {
		if *c.Price < 0 {
			return fmt.Errorf("%w: must be non-negative", ErrInvalidPrice)
		}
		if resulting != entities.QuoteStatusQuoted {
			return fmt.Errorf("%w: price can only be set on a quoted quote", ErrInvalidPrice)
		}
	}
	return nil
}

// Apply authorizes and validates c, then mutates q. On error q is left untouched.
func Apply(actor entities.Actor, q *entities.Quote, c Change, now time.Time) error {
	if err := Authorize(actor, *q, c); err != nil {
		return err
	}
	if err := Validate(actor, *q, c); err != nil {
		return err
	}

	if c.Status != nil {
		q.Status = *c.Status
		if q.Status == entities.QuoteStatusComplete && q.CompletedAt == nil {
			t := now
			q.CompletedAt = &t
		}
	}
	if c.PaymentStatus != nil {
		q.PaymentStatus = *c.PaymentStatus
		if q.PaymentStatus == entities.PaymentStatusPaid && q.PaidAt == nil {
			t := now
			q.PaidAt = &t
		}
	}
	if c.Price != nil {
		q.Price = *c.Price
	}
	q.UpdatedAt = now
	return nil
}

// CanCheckout reports whether a client may pay for q now.
func CanCheckout(q entities.Quote) error {
	if q.Status != entities.QuoteStatusAwaitingPayment {
		return fmt.Errorf("%w: checkout requires status %s, got %s", ErrIllegalTransition, entities.QuoteStatusAwaitingPayment, q.Status)
	}
	if q.PaymentStatus != entities.PaymentStatusPending && q.PaymentStatus != entities.PaymentStatusFailed {
		return fmt.Errorf("%w: checkout not allowed with payment status %s", ErrIllegalTransition, q.PaymentStatus)
	}
	if q.Price <= 0 {
		return fmt.Errorf("%w: quote has no price", ErrInvalidPrice)
	}
	return nil
}

// BeginCheckout claims q for one gateway charge under checkoutID. A claim younger
// than hold blocks any other checkout; an older one is taken over. On error q is
// left untouched.
func BeginCheckout(q *entities.Quote, checkoutID string, now time.Time, hold time.Duration) error {
	if err := CanCheckout(*q); err != nil {
		return err
	}
	if q.CheckoutID != "" && q.CheckoutStartedAt != nil && now.Sub(*q.CheckoutStartedAt) < hold {
		return fmt.Errorf("%w: quote %s since %s", ErrCheckoutInProgress, q.ID, q.CheckoutStartedAt.Format(time.RFC3339))
	}
	t := now
	q.CheckoutID = checkoutID
	q.CheckoutStartedAt = &t
	return nil
}

// ReleaseCheckout drops the claim held by checkoutID.
func ReleaseCheckout(q *entities.Quote, checkoutID string) error {
	if q.CheckoutID != checkoutID {
		return fmt.Errorf("%w: quote %s", ErrCheckoutLost, q.ID)
	}
	q.CheckoutID = ""
	q.CheckoutStartedAt = nil
	return nil
}

// RecordPayment applies the gateway outcome of the checkout claimed by checkoutID
// and releases the claim. A failed payment is first re-submitted (failed -> pending)
// before the new outcome is recorded. An approved charge also moves the quote to
// paid. On error q is left untouched.
func RecordPayment(q *entities.Quote, checkoutID string, approved bool, reference string, now time.Time) error {
	if q.CheckoutID != checkoutID {
		return fmt.Errorf("%w: quote %s", ErrCheckoutLost, q.ID)
	}
	if err := CanCheckout(*q); err != nil {
		return err
	}

	status := q.Status
	payment := q.PaymentStatus
	if payment == entities.PaymentStatusFailed {
		payment = entities.PaymentStatusPending
	}

	target := entities.PaymentStatusFailed
	if approved {
		target = entities.PaymentStatusPaid
		if !CanTransition(status, entities.QuoteStatusPaid) {
			return fmt.Errorf("%w: status %s -> %s", ErrIllegalTransition, status, entities.QuoteStatusPaid)
		}
		status = entities.QuoteStatusPaid
	}
	if !CanTransitionPayment(payment, target) {
		return fmt.Errorf("%w: payment %s -> %s", ErrIllegalTransition, payment, target)
	}

	q.Status = status
	q.PaymentStatus = target
	if reference != "" {
		q.PaymentReference = reference
	}
	if target == entities.PaymentStatusPaid && q.PaidAt == nil {
		t := now
		q.PaidAt = &t
	}
	q.CheckoutID = ""
	q.CheckoutStartedAt = nil
	q.UpdatedAt = now
	return nil
}

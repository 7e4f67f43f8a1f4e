package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/domain/lifecycle"
	"translation_desk/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrPaymentGatewayBadRequest   = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers = errors.New("payment gateway invalid users involved")
	ErrPaymentDeclined            = errors.New("payment declined")
)

// IPaymentUseCase charges the authoritative quote price through the payment gateway.
//
// Requested behavior:
//   - only the quote owner pays, only while the quote is awaiting_payment
//   - a failed payment may be re-submitted
//   - one checkout at a time: the quote is claimed before the gateway is called
//   - an approved charge moves the quote to paid

type IPaymentUseCase interface {
	PayQuote(ctx context.Context, quoteID string, actor entities.Actor, in PayQuoteInput) (entities.Quote, error)
}

// PayQuoteInput is the card data tokenized by the client-side checkout.
type PayQuoteInput struct {
	PaymentMethodID string
	Token           string
	Installments    int
	PayerEmail      string
}

type PaymentUseCase struct {
	repo    interfaces.IQuoteRepository
	gateway interfaces.IPaymentGateway
	notify  dispatcher
	retries int
	hold    time.Duration
	newID   func() string
	now     func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

const defaultCheckoutHold = 10 * time.Minute

func NewPaymentUseCase(repo interfaces.IQuoteRepository, gateway interfaces.IPaymentGateway, notifier interfaces.INotifier, cfg QuoteUseCaseConfig) *PaymentUseCase {
	hold := cfg.CheckoutHold
	if hold <= 0 {
		hold = defaultCheckoutHold
	}
	return &PaymentUseCase{
		repo:    repo,
		gateway: gateway,
		notify:  dispatcher{notifier: notifier, adminEmails: cfg.AdminEmails},
		// a lost claim or outcome write is worse than a retry
		retries: max(cfg.ConflictRetries, 3),
		hold:    hold,
		newID:   uuid.NewString,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (u *PaymentUseCase) PayQuote(ctx context.Context, quoteID string, actor entities.Actor, in PayQuoteInput) (entities.Quote, error) {
	log.Printf("[payment][usecase] pay-quote start quote_id=%s actor_id=%s", quoteID, actor.ID)
	if actor.Role != entities.RoleClient {
		return entities.Quote{}, fmt.Errorf("%w: only the quote owner can pay", ErrForbidden)
	}
	in.PaymentMethodID = strings.TrimSpace(in.PaymentMethodID)
	if in.PaymentMethodID == "" {
		return entities.Quote{}, validationErrorf("payment_method_id is required")
	}
	if in.Installments <= 0 {
		in.Installments = 1
	}

	q, err := loadQuote(ctx, u.repo, quoteID, false)
	if err != nil {
		log.Printf("[payment][usecase] failed loading quote quote_id=%s err=%v", quoteID, err)
		return entities.Quote{}, err
	}
	if !q.IsOwnedBy(actor.ID) {
		return entities.Quote{}, fmt.Errorf("%w: quote %s is not owned by %s", ErrForbidden, q.ID, actor.ID)
	}
	if err := lifecycle.CanCheckout(q); err != nil {
		log.Printf("[payment][usecase] checkout not allowed quote_id=%s status=%s payment_status=%s", q.ID, q.Status, q.PaymentStatus)
		return entities.Quote{}, classifyLifecycleError(err)
	}
	if u.gateway == nil {
		log.Printf("[payment][usecase] gateway not configured quote_id=%s", q.ID)
		return entities.Quote{}, fmt.Errorf("%w: payment gateway not configured", ErrUpstreamFailure)
	}

	checkoutID := u.newID()
	_, claimed, err := mutateQuote(ctx, u.repo, u.retries, q.ID, func(q *entities.Quote) error {
		return classifyLifecycleError(lifecycle.BeginCheckout(q, checkoutID, u.now(), u.hold))
	})
	if err != nil {
		log.Printf("[payment][usecase] checkout claim refused quote_id=%s err=%v", q.ID, err)
		return entities.Quote{}, err
	}

	payer := strings.TrimSpace(in.PayerEmail)
	if payer == "" {
		payer = claimed.Email
	}
	req := interfaces.PaymentRequest{
		Amount:            claimed.Price,
		Description:       fmt.Sprintf("Quote %s (%s)", claimed.ID, claimed.Service),
		PayerEmail:        payer,
		ExternalReference: claimed.ID,
		PaymentMethodID:   in.PaymentMethodID,
		Token:             strings.TrimSpace(in.Token),
		Installments:      in.Installments,
	}

	log.Printf("[payment][usecase] calling payment gateway quote_id=%s checkout_id=%s amount=%.2f", claimed.ID, checkoutID, req.Amount)
	res, err := u.gateway.CreatePayment(ctx, req)
	if err != nil {
		log.Printf("[payment][usecase] payment gateway failed quote_id=%s checkout_id=%s err=%v", claimed.ID, checkoutID, err)
		if errors.Is(err, context.DeadlineExceeded) {
			// the charge may still land; the claim holds until it expires
			log.Printf("[payment][usecase] checkout left claimed quote_id=%s checkout_id=%s", claimed.ID, checkoutID)
		} else {
			u.releaseCheckout(context.WithoutCancel(ctx), claimed.ID, checkoutID)
		}
		return entities.Quote{}, classifyGatewayError(err)
	}
	log.Printf("[payment][usecase] payment gateway answered quote_id=%s provider_payment_id=%s provider_status=%s", claimed.ID, res.ProviderID, res.Status)

	before, after, err := mutateQuote(context.WithoutCancel(ctx), u.repo, u.retries, claimed.ID, func(q *entities.Quote) error {
		return classifyLifecycleError(lifecycle.RecordPayment(q, checkoutID, res.Approved(), res.ProviderID, u.now()))
	})
	if err != nil {
		// The provider holds the charge; the payload is what reconciliation needs.
		log.Printf("[payment][usecase] payment not recorded quote_id=%s checkout_id=%s provider_payment_id=%s provider_status=%s err=%v payload=%s",
			claimed.ID, checkoutID, res.ProviderID, res.Status, err, string(res.Raw))
		return entities.Quote{}, err
	}

	u.notify.statusChanged(ctx, actor, before, after)
	if !res.Approved() {
		log.Printf("[payment][usecase] payment declined quote_id=%s provider_status=%s", after.ID, res.Status)
		return after, fmt.Errorf("%w: provider status %s", ErrPaymentDeclined, res.Status)
	}
	log.Printf("[payment][usecase] pay-quote success quote_id=%s payment_id=%s", after.ID, after.PaymentReference)
	return after, nil
}

func (u *PaymentUseCase) releaseCheckout(ctx context.Context, quoteID, checkoutID string) {
	_, _, err := mutateQuote(ctx, u.repo, u.retries, quoteID, func(q *entities.Quote) error {
		return lifecycle.ReleaseCheckout(q, checkoutID)
	})
	if err != nil {
		log.Printf("[payment][usecase] checkout release failed quote_id=%s checkout_id=%s err=%v", quoteID, checkoutID, err)
	}
}

func classifyGatewayError(err error) error {
	switch {
	case isGatewayBadRequest(err):
		return fmt.Errorf("%w: %w", ErrValidation, ErrPaymentGatewayBadRequest)
	case isGatewayInvalidUsers(err):
		return fmt.Errorf("%w: %w", ErrValidation, ErrPaymentGatewayInvalidUsers)
	case isGatewayUnauthorized(err):
		return fmt.Errorf("%w: %w", ErrUpstreamFailure, ErrPaymentGatewayUnauthorized)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	default:
		return fmt.Errorf("%w: payment gateway: %w", ErrUpstreamFailure, err)
	}
}

func isGatewayBadRequest(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

func isGatewayInvalidUsers(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034")
}

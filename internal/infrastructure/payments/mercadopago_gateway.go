package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"translation_desk/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing mercado pago access token")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

type paymentCreator interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
}

type MercadoPagoGateway struct {
	client   paymentCreator
	mockMode bool
	now      func() time.Time
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

// NewMercadoPagoGateway returns a gateway backed by the Mercado Pago SDK, or a local
// gateway approving every charge when mock is set.
func NewMercadoPagoGateway(accessToken string, mock bool) (*MercadoPagoGateway, error) {
	if mock {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, now: time.Now}, nil
	}

	if accessToken == "" {
		log.Printf("[payment][gateway] missing access token")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg), now: time.Now}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, req interfaces.PaymentRequest) (interfaces.PaymentResult, error) {
	if g != nil && g.mockMode {
		return g.mockPayment(req)
	}

	if g == nil || g.client == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return interfaces.PaymentResult{}, ErrMercadoPagoGatewayNotConfigured
	}
	log.Printf("[payment][gateway] create start external_reference=%s amount=%.2f", req.ExternalReference, req.Amount)

	resp, err := g.client.Create(ctx, toSDKRequest(req))
	if err != nil {
		log.Printf("[payment][gateway] sdk create failed external_reference=%s err=%v", req.ExternalReference, err)
		return interfaces.PaymentResult{}, err
	}

	b, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[payment][gateway] response marshal failed err=%v", err)
		return interfaces.PaymentResult{}, err
	}
	log.Printf("[payment][gateway] create success provider_payment_id=%d provider_status=%s", resp.ID, resp.Status)

	return interfaces.PaymentResult{
		ProviderID: fmt.Sprintf("%d", resp.ID),
		Status:     resp.Status,
		Raw:        b,
	}, nil
}

func (g *MercadoPagoGateway) mockPayment(req interfaces.PaymentRequest) (interfaces.PaymentResult, error) {
	log.Printf("[payment][gateway] mock create start external_reference=%s", req.ExternalReference)

	now := g.now().UTC()
	id := strconv.FormatInt(now.UnixNano(), 10)
	resp := map[string]any{
		"id":                 id,
		"status":             "approved",
		"status_detail":      "accredited",
		"transaction_amount": req.Amount,
		"description":        req.Description,
		"external_reference": req.ExternalReference,
		"payment_method_id":  req.PaymentMethodID,
		"installments":       req.Installments,
		"payer":              map[string]any{"email": req.PayerEmail},
		"date_created":       now.Format(time.RFC3339Nano),
		"date_approved":      now.Format(time.RFC3339Nano),
	}

	b, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[payment][gateway] mock response marshal failed err=%v", err)
		return interfaces.PaymentResult{}, err
	}

	log.Printf("[payment][gateway] mock create success provider_payment_id=%s provider_status=approved", id)
	return interfaces.PaymentResult{ProviderID: id, Status: "approved", Raw: b}, nil
}

func toSDKRequest(req interfaces.PaymentRequest) payment.Request {
	out := payment.Request{
		TransactionAmount: req.Amount,
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
		PaymentMethodID:   req.PaymentMethodID,
		Token:             req.Token,
		Installments:      req.Installments,
	}
	if req.PayerEmail != "" {
		out.Payer = &payment.PayerRequest{Email: req.PayerEmail}
	}
	return out
}

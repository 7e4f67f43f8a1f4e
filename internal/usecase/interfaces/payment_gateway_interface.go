package interfaces

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/mock_payment_gateway_interface.go -package=mock_interfaces

// PaymentRequest is a card payment for a quote's authoritative price.
type PaymentRequest struct {
	Amount            float64
	Description       string
	PayerEmail        string
	ExternalReference string
	PaymentMethodID   string
	Token             string
	Installments      int
}

// PaymentResult carries the provider payload for traceability.
type PaymentResult struct {
	ProviderID string
	Status     string
	Raw        json.RawMessage
}

// Approved reports whether the provider accepted the charge.
func (r PaymentResult) Approved() bool { return r.Status == "approved" }

// IPaymentGateway abstracts external payment providers (e.g. Mercado Pago).
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

package payment

import (
	"context"

	"github.com/artisanmarket/storefront/internal/domain"
)

type ChargeRequest struct {
	OrderNumber string
	Method      domain.PaymentMethod
	Amount      float64
}

type Receipt struct {
	TransactionID string
	Amount        float64
}

// Processor charges a customer. Implementations must respect ctx
// cancellation; a charge past its deadline returns the ctx error.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
}

package payment

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerProcessor shields the checkout flow from a misbehaving gateway.
// Once the breaker opens, charges fail fast instead of piling up.
type BreakerProcessor struct {
	inner   Processor
	breaker *gobreaker.CircuitBreaker[*Receipt]
}

func NewBreakerProcessor(inner Processor) *BreakerProcessor {
	settings := gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &BreakerProcessor{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[*Receipt](settings),
	}
}

func (p *BreakerProcessor) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	return p.breaker.Execute(func() (*Receipt, error) {
		return p.inner.Charge(ctx, req)
	})
}

package payment

import (
	"context"
	"fmt"
	"time"
)

// SimulatedProcessor stands in for a real gateway: it waits a fixed delay
// and then approves the charge. There is no refusal path.
type SimulatedProcessor struct {
	delay time.Duration
}

func NewSimulatedProcessor(delay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{delay: delay}
}

func (p *SimulatedProcessor) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &Receipt{
		TransactionID: fmt.Sprintf("TXN-%d", time.Now().UnixNano()),
		Amount:        req.Amount,
	}, nil
}

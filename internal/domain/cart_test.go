package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	cart := &Cart{
		SessionID: "s1",
		Items: []CartItem{
			{ProductID: "1", Price: 45.99, Quantity: 2},
			{ProductID: "2", Price: 32.50, Quantity: 1},
			{ProductID: "3", Price: 10.00, Quantity: 3},
		},
	}

	assert.Equal(t, 6, cart.TotalItems())
	assert.InDelta(t, 45.99*2+32.50+30.00, cart.Subtotal(), 1e-9)
	assert.False(t, cart.IsEmpty())
}

func TestCartTotals_Empty(t *testing.T) {
	cart := &Cart{SessionID: "s1"}

	assert.Equal(t, 0, cart.TotalItems())
	assert.Equal(t, 0.0, cart.Subtotal())
	assert.True(t, cart.IsEmpty())
}

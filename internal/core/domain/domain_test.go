package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUser_HasRole(t *testing.T) {
	u := &User{Role: RoleModerator}
	assert.True(t, u.HasRole(RoleModerator))
	assert.True(t, u.HasRole(RoleAdmin, RoleModerator))
	assert.False(t, u.HasRole(RoleAdmin))
	assert.False(t, u.HasRole(RoleCustomer))
}

func TestProduct_IsPurchasable(t *testing.T) {
	p := &Product{Active: true, Stock: 3}
	assert.True(t, p.IsPurchasable())

	p.Stock = 0
	assert.False(t, p.IsPurchasable())

	p.Stock = 5
	p.Active = false
	assert.False(t, p.IsPurchasable())
}

func TestCart_UpsertAndRemove(t *testing.T) {
	productID := uuid.New()
	c := &Cart{UserID: uuid.New(), Currency: "usd"}

	c.Upsert(CartItem{ProductID: productID, Name: "Mug", UnitPrice: decimal.NewFromFloat(9.99), Quantity: 1})
	assert.Len(t, c.Items, 1)

	// Upsert on the same product replaces quantity, not appends.
	c.Upsert(CartItem{ProductID: productID, Name: "Mug", UnitPrice: decimal.NewFromFloat(9.99), Quantity: 3})
	assert.Len(t, c.Items, 1)
	assert.Equal(t, int64(3), c.Items[0].Quantity)

	assert.True(t, c.Remove(productID))
	assert.True(t, c.IsEmpty())
	assert.False(t, c.Remove(productID))
}

func TestCart_Total(t *testing.T) {
	c := &Cart{}
	c.Upsert(CartItem{ProductID: uuid.New(), UnitPrice: decimal.NewFromFloat(9.99), Quantity: 2})
	c.Upsert(CartItem{ProductID: uuid.New(), UnitPrice: decimal.NewFromFloat(10.01), Quantity: 1})

	assert.True(t, c.Total().Equal(decimal.NewFromFloat(29.99)), "got %s", c.Total())
}

func TestOrder_CanTransitionTo(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	assert.True(t, o.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, o.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, o.CanTransitionTo(OrderStatusShipped))
	assert.False(t, o.CanTransitionTo(OrderStatusDelivered))

	o.Status = OrderStatusShipped
	assert.True(t, o.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, o.CanTransitionTo(OrderStatusProcessing))

	o.Status = OrderStatusCancelled
	assert.False(t, o.CanTransitionTo(OrderStatusPending))
	assert.True(t, o.IsTerminal())
}

func TestOrder_TotalMinorUnits(t *testing.T) {
	o := &Order{Total: decimal.NewFromFloat(29.99), Currency: "usd"}
	assert.Equal(t, int64(2999), o.TotalMinorUnits())

	o.Total = decimal.NewFromInt(100)
	assert.Equal(t, int64(10000), o.TotalMinorUnits())
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"29.99", "usd", 2999},
		{"29.999", "usd", 2999}, // truncated below cent precision
		{"100", "EUR", 10000},
		{"1500", "jpy", 1500}, // zero-decimal: no scaling
		{"1500", "KRW", 1500},
		{"0.5", "vnd", 0},
	}
	for _, tt := range tests {
		got := MinorUnits(decimal.RequireFromString(tt.amount), tt.currency)
		assert.Equal(t, tt.want, got, "%s %s", tt.amount, tt.currency)
	}
}

func TestPayment_IsTerminal(t *testing.T) {
	p := &Payment{Status: PaymentStatusPending}
	assert.False(t, p.IsTerminal())

	p.Status = PaymentStatusSucceeded
	assert.True(t, p.IsTerminal())

	p.Status = PaymentStatusFailed
	assert.True(t, p.IsTerminal())
}

func TestPayment_IsRefundable(t *testing.T) {
	p := &Payment{Status: PaymentStatusSucceeded}
	assert.True(t, p.IsRefundable())

	ref := "re_123"
	p.RefundRef = &ref
	assert.False(t, p.IsRefundable(), "already refunded")

	p = &Payment{Status: PaymentStatusPending}
	assert.False(t, p.IsRefundable())
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRecomputesTotals(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			// The backend's figures are wrong on purpose; Normalize must
			// override them.
			{MerchantProductID: "mp-1", Quantity: 2, Price: 29.99, SubTotal: 1},
			{MerchantProductID: "mp-2", Quantity: 1, Price: 10.00, SubTotal: 99},
		},
		TotalValue: 500,
	}

	cart.Normalize()

	assert.InDelta(t, 59.98, cart.Items[0].SubTotal, 0.001)
	assert.InDelta(t, 10.00, cart.Items[1].SubTotal, 0.001)
	assert.InDelta(t, 69.98, cart.TotalValue, 0.001)
}

func TestNormalizeEmptyCart(t *testing.T) {
	cart := Cart{TotalValue: 12}
	cart.Normalize()
	assert.Zero(t, cart.TotalValue)
}

func TestItemCount(t *testing.T) {
	cart := Cart{Items: []CartItem{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, 5, cart.ItemCount())

	var nilCart *Cart
	assert.Zero(t, nilCart.ItemCount())
}

func TestSessionRoleHelpers(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.IsAuthenticated())
	assert.False(t, nilSession.IsCustomer())
	assert.False(t, nilSession.IsMerchant())

	customer := &Session{Token: "t", User: User{Role: RoleCustomer}}
	assert.True(t, customer.IsAuthenticated())
	assert.True(t, customer.IsCustomer())
	assert.False(t, customer.IsMerchant())

	tokenless := &Session{User: User{Role: RoleCustomer}}
	assert.False(t, tokenless.IsAuthenticated())
}

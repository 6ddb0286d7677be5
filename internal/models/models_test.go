package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCartTotals_UseCurrentProductPrice(t *testing.T) {
	phone := &Product{Price: decimal.RequireFromString("10.00")}
	cable := &Product{Price: decimal.RequireFromString("2.50")}

	cart := Cart{Items: []CartItem{
		{Product: phone, Quantity: 2},
		{Product: cable, Quantity: 3},
	}}

	assert.Equal(t, uint(5), cart.TotalItems())
	assert.Equal(t, "27.50", cart.TotalSum().StringFixed(2))

	phone.Price = decimal.RequireFromString("12.00")
	assert.Equal(t, "31.50", cart.TotalSum().StringFixed(2))
}

func TestCartTotals_Empty(t *testing.T) {
	var cart Cart
	assert.Zero(t, cart.TotalItems())
	assert.True(t, cart.TotalSum().IsZero())
}

func TestCartItemTotal_WithoutProduct(t *testing.T) {
	item := CartItem{Quantity: 4}
	assert.True(t, item.Total().IsZero())
}

func TestProductNeedsDerivatives(t *testing.T) {
	tests := []struct {
		name string
		p    Product
		want bool
	}{
		{name: "no original", p: Product{}, want: false},
		{name: "nothing derived", p: Product{ImageOriginal: "products/original/a.png"}, want: true},
		{name: "thumbnail missing", p: Product{ImageOriginal: "a.png", ImageMedium: strPtr("m.png")}, want: true},
		{name: "empty medium", p: Product{ImageOriginal: "a.png", ImageMedium: strPtr(""), ImageThumbnail: strPtr("t.png")}, want: true},
		{name: "both derived", p: Product{ImageOriginal: "a.png", ImageMedium: strPtr("m.png"), ImageThumbnail: strPtr("t.png")}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.NeedsDerivatives())
		})
	}
}

package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	got, ok := ParseCategory(" Celular ")
	assert.True(t, ok, "slugs are case-insensitive and trimmed")
	assert.Equal(t, CategoryPhone, got)

	_, ok = ParseCategory("reloj")
	assert.False(t, ok)
	_, ok = ParseCategory("")
	assert.False(t, ok)
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryLaptop.Valid())
	assert.False(t, Category("reloj").Valid())
}

func TestProductDisplayName(t *testing.T) {
	assert.Equal(t, "iPhone 15", Product{Model: "iPhone 15", Kind: "Funda"}.DisplayName())
	assert.Equal(t, "Funda", Product{Kind: "Funda"}.DisplayName())
	assert.Equal(t, "Producto", Product{Generation: "AirPods Pro 2"}.DisplayName())
}

func TestAddressComplete(t *testing.T) {
	full := Address{Street: "Reforma 1", PostalCode: "06600", Neighborhood: "Juárez", City: "CDMX", Country: "México"}
	assert.True(t, full.Complete())

	partial := full
	partial.Country = ""
	assert.False(t, partial.Complete())
}

func TestPaymentMethodLastFour(t *testing.T) {
	assert.Equal(t, "4242", PaymentMethod{CardNumber: "4242424242424242"}.LastFour())
	assert.Equal(t, "99", PaymentMethod{CardNumber: "99"}.LastFour())
}

func TestOrderLineSubtotal(t *testing.T) {
	l := OrderLine{Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")}
	assert.True(t, l.Subtotal().Equal(decimal.RequireFromString("59.97")))
}

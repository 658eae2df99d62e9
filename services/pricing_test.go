package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/yashrajoria/storefront-session/models"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestResolveUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		product  *models.Product
		variant  int
		override *decimal.Decimal
		want     string
	}{
		{
			name:     "positive override wins",
			product:  &models.Product{ID: "p1", Price: dec("10")},
			override: dec("7.5"),
			want:     "7.5",
		},
		{
			name:     "zero override is ignored",
			product:  &models.Product{ID: "p1", Price: dec("10")},
			override: dec("0"),
			want:     "10",
		},
		{
			name: "variant offer price",
			product: &models.Product{ID: "p1", Price: dec("10"), Variants: []models.Variant{
				{Name: "red", Price: dec("12"), OfferPrice: dec("9")},
			}},
			want: "9",
		},
		{
			name: "zero offer falls back to variant price",
			product: &models.Product{ID: "p1", Price: dec("10"), Variants: []models.Variant{
				{Name: "red", Price: dec("12"), OfferPrice: dec("0")},
			}},
			want: "12",
		},
		{
			name: "zero offer and no variant price falls back to product price",
			product: &models.Product{ID: "p1", Price: dec("10"), Variants: []models.Variant{
				{Name: "red", OfferPrice: dec("0")},
			}},
			want: "10",
		},
		{
			name: "first pricing slot when nothing else is set",
			product: &models.Product{ID: "p1", PricingSlots: []models.PricingSlot{
				{Size: "S", RegularPrice: dec("20")},
				{Size: "M", RegularPrice: dec("25")},
			}},
			want: "20",
		},
		{
			name:    "out of range variant uses product price",
			product: &models.Product{ID: "p1", Price: dec("10")},
			variant: 3,
			want:    "10",
		},
		{
			name:    "no prices at all",
			product: &models.Product{ID: "p1"},
			want:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveUnitPrice(tt.product, tt.variant, tt.override)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolveOriginalUnitPrice(t *testing.T) {
	p := &models.Product{ID: "p1", Price: dec("10"), Variants: []models.Variant{
		{Name: "red", Price: dec("12"), OfferPrice: dec("9")},
	}}
	assert.Equal(t, "12", ResolveOriginalUnitPrice(p, 0, decimal.RequireFromString("9")).String())

	bare := &models.Product{ID: "p2"}
	assert.Equal(t, "5", ResolveOriginalUnitPrice(bare, 0, decimal.RequireFromString("5")).String())
}

func TestBuildCartItem(t *testing.T) {
	p := &models.Product{
		ID:     "p1",
		Name:   "Tee",
		Price:  dec("10"),
		Images: []string{"tee.png"},
		Variants: []models.Variant{
			{Name: "Ocean", Color: "blue", OfferPrice: dec("8"), Images: []string{"blue.png"}},
		},
	}

	item := BuildCartItem(p, 0, 3, "M", nil, "u1")

	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "Ocean", item.VariantName)
	assert.Equal(t, "blue", item.Color)
	assert.Equal(t, "blue.png", item.ImageURL)
	assert.Equal(t, "M", item.Size)
	assert.Equal(t, "u1", item.OwnerID)
	assert.Equal(t, "8", item.UnitPrice.String())
	assert.Equal(t, "10", item.OriginalUnitPrice.String())
	assert.Equal(t, "24", item.LineTotal.String())
}

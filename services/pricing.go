package services

import (
	"github.com/shopspring/decimal"
	"github.com/yashrajoria/storefront-session/models"
)

// ResolveUnitPrice picks a line's unit price: a positive override, then the
// variant's positive offer price, then the base price. Zero is never treated
// as a discount.
func ResolveUnitPrice(p *models.Product, variantIndex int, override *decimal.Decimal) decimal.Decimal {
	if models.Positive(override) {
		return *override
	}
	if v := p.Variant(variantIndex); v != nil && models.Positive(v.OfferPrice) {
		return *v.OfferPrice
	}
	return basePrice(p, variantIndex)
}

// ResolveOriginalUnitPrice is the undiscounted price shown struck through
// next to an offer. Without any base price it equals unitPrice.
func ResolveOriginalUnitPrice(p *models.Product, variantIndex int, unitPrice decimal.Decimal) decimal.Decimal {
	if base := basePrice(p, variantIndex); base.IsPositive() {
		return base
	}
	return unitPrice
}

// basePrice: variant price, product price, first pricing slot, zero.
func basePrice(p *models.Product, variantIndex int) decimal.Decimal {
	if v := p.Variant(variantIndex); v != nil && models.Positive(v.Price) {
		return *v.Price
	}
	if p == nil {
		return decimal.Zero
	}
	if models.Positive(p.Price) {
		return *p.Price
	}
	if len(p.PricingSlots) > 0 && models.Positive(p.PricingSlots[0].RegularPrice) {
		return *p.PricingSlots[0].RegularPrice
	}
	return decimal.Zero
}

// BuildCartItem assembles a new line for product with the total already computed.
func BuildCartItem(p *models.Product, variantIndex, quantity int, size string, override *decimal.Decimal, ownerID string) models.CartItem {
	unit := ResolveUnitPrice(p, variantIndex, override)
	item := models.CartItem{
		ProductID:         p.ID,
		Name:              p.Name,
		UnitPrice:         unit,
		OriginalUnitPrice: ResolveOriginalUnitPrice(p, variantIndex, unit),
		Quantity:          quantity,
		ImageURL:          p.ImageFor(variantIndex),
		VariantIndex:      variantIndex,
		Size:              size,
		OwnerID:           ownerID,
	}
	if v := p.Variant(variantIndex); v != nil {
		item.VariantName = v.Name
		item.Color = v.Color
	}
	item.Recompute()
	return item
}

package models

import "github.com/shopspring/decimal"

// Product is the catalog entry a screen hands to the cart. Optional prices are
// pointers so "absent" and "zero" stay distinguishable.
type Product struct {
	ID           string           `json:"_id" validate:"required" label:"Product id"`
	Name         string           `json:"name"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Images       []string         `json:"images,omitempty"`
	Variants     []Variant        `json:"variants,omitempty" validate:"dive"`
	PricingSlots []PricingSlot    `json:"pricing,omitempty" validate:"dive"`
}

// Variant is a color/style option of a product.
type Variant struct {
	Name       string           `json:"name"`
	Color      string           `json:"color,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	OfferPrice *decimal.Decimal `json:"offerPrice,omitempty"`
	Images     []string         `json:"images,omitempty"`
}

// PricingSlot is a size-based price row.
type PricingSlot struct {
	Size         string           `json:"size,omitempty"`
	RegularPrice *decimal.Decimal `json:"regularPrice,omitempty"`
	OfferPrice   *decimal.Decimal `json:"offerPrice,omitempty"`
}

// Variant returns the variant at index, or nil when out of range.
func (p *Product) Variant(index int) *Variant {
	if p == nil || index < 0 || index >= len(p.Variants) {
		return nil
	}
	return &p.Variants[index]
}

// ImageFor picks the first image of the variant, falling back to the product.
func (p *Product) ImageFor(index int) string {
	if v := p.Variant(index); v != nil && len(v.Images) > 0 {
		return v.Images[0]
	}
	if p != nil && len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// Positive reports whether d is set and greater than zero.
func Positive(d *decimal.Decimal) bool {
	return d != nil && d.IsPositive()
}

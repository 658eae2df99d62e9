package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuestOwner marks cart lines added without a session.
const GuestOwner = "guest"

// LineKey identifies a cart line. Lines that differ only by size are distinct.
type LineKey struct {
	ProductID    string `json:"productId"`
	VariantIndex int    `json:"variantIndex"`
	Size         string `json:"size,omitempty"`
}

type CartItem struct {
	ProductID         string          `json:"productId"`
	Name              string          `json:"name"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	OriginalUnitPrice decimal.Decimal `json:"originalUnitPrice"`
	Quantity          int             `json:"quantity"`
	LineTotal         decimal.Decimal `json:"lineTotal"`
	ImageURL          string          `json:"imageUrl,omitempty"`
	VariantIndex      int             `json:"variantIndex"`
	VariantName       string          `json:"variantName,omitempty"`
	Color             string          `json:"color,omitempty"`
	Size              string          `json:"size,omitempty"`
	OwnerID           string          `json:"ownerId"`
}

// Key returns the line's identity key.
func (i CartItem) Key() LineKey {
	return LineKey{ProductID: i.ProductID, VariantIndex: i.VariantIndex, Size: i.Size}
}

// Recompute restores LineTotal = UnitPrice * Quantity.
func (i *CartItem) Recompute() {
	i.LineTotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the persisted cart blob.
type Cart struct {
	Items     []CartItem `json:"items"`
	Version   int64      `json:"version"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Find returns the index of the line with key, or -1.
func (c *Cart) Find(key LineKey) int {
	for i, existing := range c.Items {
		if existing.Key() == key {
			return i
		}
	}
	return -1
}

// Merge adds item, bumping the quantity of an existing line with the same key
// instead of appending a duplicate. It returns the resulting line.
func (c *Cart) Merge(item CartItem) CartItem {
	if i := c.Find(item.Key()); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		c.Items[i].Recompute()
		return c.Items[i]
	}
	item.Recompute()
	c.Items = append(c.Items, item)
	return item
}

// SetQuantity changes a line's quantity; zero or less removes it. It reports
// whether the line existed.
func (c *Cart) SetQuantity(key LineKey, quantity int) bool {
	i := c.Find(key)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = quantity
	c.Items[i].Recompute()
	return true
}

// Remove drops the line with key and reports whether it existed.
func (c *Cart) Remove(key LineKey) bool {
	return c.SetQuantity(key, 0)
}

// Count is the number of distinct lines, not the sum of quantities.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// Total sums the line totals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, item := range c.Items {
		total = total.Add(item.LineTotal)
	}
	return total
}

// Favorites is the set of favorited product ids in insertion order. It is
// persisted as a plain JSON array.
type Favorites []string

// Contains reports whether id is a favorite.
func (f Favorites) Contains(id string) bool {
	for _, existing := range f {
		if existing == id {
			return true
		}
	}
	return false
}

// Toggle adds id if absent, removes it otherwise, and reports whether it is now a favorite.
func (f *Favorites) Toggle(id string) bool {
	for i, existing := range *f {
		if existing == id {
			*f = append((*f)[:i], (*f)[i+1:]...)
			return false
		}
	}
	*f = append(*f, id)
	return true
}

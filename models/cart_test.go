package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID string, variant int, size string, price string, qty int) CartItem {
	return CartItem{
		ProductID:    productID,
		Name:         "Item " + productID,
		UnitPrice:    decimal.RequireFromString(price),
		Quantity:     qty,
		VariantIndex: variant,
		Size:         size,
		OwnerID:      GuestOwner,
	}
}

func TestCartMerge(t *testing.T) {
	t.Run("same key merges into one line", func(t *testing.T) {
		var cart Cart
		cart.Merge(line("p1", 0, "", "12.50", 2))
		merged := cart.Merge(line("p1", 0, "", "12.50", 3))

		require.Len(t, cart.Items, 1)
		assert.Equal(t, 5, merged.Quantity)
		assert.True(t, decimal.RequireFromString("62.50").Equal(cart.Items[0].LineTotal))
	})

	t.Run("different size is a different line", func(t *testing.T) {
		var cart Cart
		cart.Merge(line("p1", 0, "M", "10", 1))
		cart.Merge(line("p1", 0, "L", "10", 1))

		assert.Equal(t, 2, cart.Count())
	})

	t.Run("count ignores quantity", func(t *testing.T) {
		var cart Cart
		cart.Merge(line("p1", 0, "", "1", 10))
		cart.Merge(line("p2", 0, "", "1", 7))
		cart.Merge(line("p2", 1, "", "1", 1))

		assert.Equal(t, 3, cart.Count())
		assert.True(t, decimal.NewFromInt(18).Equal(cart.Total()))
	})
}

func TestCartSetQuantity(t *testing.T) {
	var cart Cart
	cart.Merge(line("p1", 0, "", "4", 1))
	cart.Merge(line("p2", 0, "", "3", 1))

	assert.True(t, cart.SetQuantity(LineKey{ProductID: "p1"}, 4))
	assert.True(t, decimal.NewFromInt(16).Equal(cart.Items[0].LineTotal))

	assert.True(t, cart.Remove(LineKey{ProductID: "p2"}))
	assert.False(t, cart.Remove(LineKey{ProductID: "p2"}))
	assert.Equal(t, 1, cart.Count())
}

func TestCartJSONRoundTrip(t *testing.T) {
	var cart Cart
	cart.Merge(line("p1", 0, "S", "19.99", 2))
	cart.Merge(line("p2", 2, "", "5", 1))
	cart.Version = 3

	raw, err := json.Marshal(cart)
	require.NoError(t, err)

	var decoded Cart
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Len(t, decoded.Items, 2)
	assert.Equal(t, int64(3), decoded.Version)
	for i := range cart.Items {
		assert.Equal(t, cart.Items[i].Key(), decoded.Items[i].Key())
		assert.True(t, cart.Items[i].UnitPrice.Equal(decoded.Items[i].UnitPrice))
		assert.True(t, cart.Items[i].LineTotal.Equal(decoded.Items[i].LineTotal))
		assert.Equal(t, cart.Items[i].Quantity, decoded.Items[i].Quantity)
	}
}

func TestFavoritesToggle(t *testing.T) {
	var favs Favorites

	assert.True(t, favs.Toggle("p1"))
	assert.True(t, favs.Toggle("p2"))
	assert.True(t, favs.Contains("p1"))
	assert.False(t, favs.Toggle("p1"))
	assert.False(t, favs.Contains("p1"))
	assert.Equal(t, Favorites{"p2"}, favs)
}

func TestUserProfile(t *testing.T) {
	storeID := "s1"
	empty := ""

	assert.True(t, (&UserProfile{Role: RoleSeller}).NeedsStoreSetup())
	assert.True(t, (&UserProfile{Role: RoleSeller, StoreID: &empty}).NeedsStoreSetup())
	assert.False(t, (&UserProfile{Role: RoleSeller, StoreID: &storeID}).NeedsStoreSetup())
	assert.False(t, (&UserProfile{Role: RoleUser}).NeedsStoreSetup())
	assert.Equal(t, "Ada Lovelace", (&UserProfile{FirstName: "Ada", LastName: "Lovelace"}).FullName())

	assert.False(t, Session{User: &UserProfile{ID: "u1"}}.Authenticated())
	assert.True(t, Session{Token: "t"}.Authenticated())
}

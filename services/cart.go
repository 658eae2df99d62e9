package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	apperrors "github.com/yashrajoria/storefront-session/common/errors"
	"github.com/yashrajoria/storefront-session/common/logger"
	"github.com/yashrajoria/storefront-session/models"
	"go.uber.org/zap"
)

var errLineNotFound = apperrors.Validation("This item is no longer in your cart")

type cartOptions struct {
	size     string
	override *decimal.Decimal
}

// CartOption tunes a single AddToCart call.
type CartOption func(*cartOptions)

// WithSize selects a size. Lines that differ only by size are kept apart.
func WithSize(size string) CartOption {
	return func(o *cartOptions) {
		o.size = strings.TrimSpace(size)
	}
}

// WithPriceOverride sets the unit price explicitly. Zero or negative
// overrides are ignored.
func WithPriceOverride(price decimal.Decimal) CartOption {
	return func(o *cartOptions) {
		o.override = &price
	}
}

// AddToCart merges quantity units of the selected variant into the cart and
// returns the resulting line.
func (s *SessionCartStore) AddToCart(ctx context.Context, product *models.Product, variantIndex, quantity int, opts ...CartOption) (*models.CartItem, error) {
	var o cartOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := s.validator.Product(product); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, apperrors.Validation("Quantity must be at least 1")
	}
	if variantIndex < 0 || (len(product.Variants) > 0 && variantIndex >= len(product.Variants)) {
		return nil, apperrors.Validation("Selected variant is not available")
	}

	item := BuildCartItem(product, variantIndex, quantity, o.size, o.override, s.ownerID())

	var line models.CartItem
	err := s.mutateCart(ctx, func(cart *models.Cart) error {
		line = cart.Merge(item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, s.log, "added to cart",
		zap.String("product_id", line.ProductID),
		zap.Int("variant_index", line.VariantIndex),
		zap.String("size", line.Size),
		zap.Int("quantity", line.Quantity),
	)
	return &line, nil
}

// Cart returns the persisted lines in insertion order.
func (s *SessionCartStore) Cart(ctx context.Context) ([]models.CartItem, error) {
	cart, err := s.carts.GetCart(ctx)
	if err != nil {
		return nil, apperrors.Storage("Could not load your cart. Please try again.", err)
	}
	return cart.Items, nil
}

// CartTotal sums the persisted line totals.
func (s *SessionCartStore) CartTotal(ctx context.Context) (decimal.Decimal, error) {
	cart, err := s.carts.GetCart(ctx)
	if err != nil {
		return decimal.Zero, apperrors.Storage("Could not load your cart. Please try again.", err)
	}
	return cart.Total(), nil
}

// UpdateCartQuantity sets a line's quantity. Zero or less removes the line.
func (s *SessionCartStore) UpdateCartQuantity(ctx context.Context, key models.LineKey, quantity int) error {
	return s.mutateCart(ctx, func(cart *models.Cart) error {
		if !cart.SetQuantity(key, quantity) {
			return errLineNotFound
		}
		return nil
	})
}

func (s *SessionCartStore) RemoveFromCart(ctx context.Context, key models.LineKey) error {
	return s.mutateCart(ctx, func(cart *models.Cart) error {
		if !cart.Remove(key) {
			return errLineNotFound
		}
		return nil
	})
}

func (s *SessionCartStore) ClearCart(ctx context.Context) error {
	return s.mutateCart(ctx, func(cart *models.Cart) error {
		cart.Items = []models.CartItem{}
		return nil
	})
}

// UpdateCartCount recomputes the cart counter from storage and publishes it.
func (s *SessionCartStore) UpdateCartCount(ctx context.Context) (int, error) {
	cart, err := s.carts.GetCart(ctx)
	if err != nil {
		logger.Error(ctx, s.log, "failed to read cart", err)
		return 0, apperrors.Storage("Could not load your cart. Please try again.", err)
	}
	s.setCartCount(cart.Count())
	return cart.Count(), nil
}

// ToggleFavorite flips productID in the favorites set and reports whether it
// is now a favorite.
func (s *SessionCartStore) ToggleFavorite(ctx context.Context, productID string) (bool, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return false, apperrors.Validation("Product is required")
	}

	var added bool
	var favs models.Favorites
	err := s.queue.Do(s.favorites.Key(), func() error {
		var err error
		favs, err = s.favorites.Mutate(ctx, func(f *models.Favorites) error {
			added = f.Toggle(productID)
			return nil
		})
		return err
	})
	if err != nil {
		logger.Error(ctx, s.log, "failed to update favorites", err)
		return false, apperrors.Storage("Could not update your favorites. Please try again.", err)
	}

	s.setFavoritesCount(len(favs))
	return added, nil
}

func (s *SessionCartStore) IsFavorite(ctx context.Context, productID string) (bool, error) {
	favs, err := s.favorites.Get(ctx)
	if err != nil {
		return false, apperrors.Storage("Could not load your favorites. Please try again.", err)
	}
	return favs.Contains(productID), nil
}

func (s *SessionCartStore) Favorites(ctx context.Context) ([]string, error) {
	favs, err := s.favorites.Get(ctx)
	if err != nil {
		return nil, apperrors.Storage("Could not load your favorites. Please try again.", err)
	}
	return favs, nil
}

// UpdateFavoritesCount recomputes the favorites counter from storage and publishes it.
func (s *SessionCartStore) UpdateFavoritesCount(ctx context.Context) (int, error) {
	favs, err := s.favorites.Get(ctx)
	if err != nil {
		logger.Error(ctx, s.log, "failed to read favorites", err)
		return 0, apperrors.Storage("Could not load your favorites. Please try again.", err)
	}
	s.setFavoritesCount(len(favs))
	return len(favs), nil
}

// mutateCart serializes fn with every other cart write in this process and
// applies it through the store's atomic update.
func (s *SessionCartStore) mutateCart(ctx context.Context, fn func(cart *models.Cart) error) error {
	var written *models.Cart
	err := s.queue.Do(s.carts.Key(), func() error {
		var err error
		written, err = s.carts.Mutate(ctx, fn)
		return err
	})
	if err != nil {
		if apperrors.KindOf(err) != "" {
			return err
		}
		logger.Error(ctx, s.log, "failed to update cart", err)
		return apperrors.Storage("Could not update your cart. Please try again.", err)
	}

	s.setCartCount(written.Count())
	return nil
}

func (s *SessionCartStore) setCartCount(n int) {
	s.mu.Lock()
	s.cartCount = n
	s.mu.Unlock()
	s.publish()
}

func (s *SessionCartStore) setFavoritesCount(n int) {
	s.mu.Lock()
	s.favoritesCount = n
	s.mu.Unlock()
	s.publish()
}

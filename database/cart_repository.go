package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yashrajoria/storefront-session/models"
	"go.uber.org/zap"
)

// CartRepository stores the whole cart as one JSON blob. Every write replaces
// the blob and bumps its version.
type CartRepository struct {
	kv  KeyValueStore
	key string
	log *zap.Logger
	now func() time.Time
}

func NewCartRepository(kv KeyValueStore, key string, log *zap.Logger) *CartRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartRepository{kv: kv, key: key, log: log, now: time.Now}
}

// Key is the storage key of the cart blob.
func (r *CartRepository) Key() string {
	return r.key
}

// GetCart returns the persisted cart, or an empty cart when nothing usable is stored.
func (r *CartRepository) GetCart(ctx context.Context) (*models.Cart, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return &models.Cart{Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return r.decode(raw), nil
}

// Mutate applies fn to the stored cart inside one atomic read-modify-write and
// returns the cart as written. If fn fails nothing is written.
func (r *CartRepository) Mutate(ctx context.Context, fn func(cart *models.Cart) error) (*models.Cart, error) {
	var written *models.Cart
	err := r.kv.Update(ctx, r.key, func(current string, found bool) (string, error) {
		cart := &models.Cart{Items: []models.CartItem{}}
		if found {
			cart = r.decode(current)
		}
		if err := fn(cart); err != nil {
			return "", err
		}
		cart.Version++
		cart.UpdatedAt = r.now().UTC()

		data, err := json.Marshal(cart)
		if err != nil {
			return "", fmt.Errorf("encoding cart: %w", err)
		}
		written = cart
		return string(data), nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

// DeleteCart removes the cart blob.
func (r *CartRepository) DeleteCart(ctx context.Context) error {
	if err := r.kv.Remove(ctx, r.key); err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	return nil
}

func (r *CartRepository) decode(raw string) *models.Cart {
	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		r.log.Warn("discarding unparseable cart", zap.String("key", r.key), zap.Error(err))
		return &models.Cart{Items: []models.CartItem{}}
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart
}

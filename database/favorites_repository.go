package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yashrajoria/storefront-session/models"
	"go.uber.org/zap"
)

// FavoritesRepository persists the device-wide favorites set as a JSON array.
type FavoritesRepository struct {
	kv  KeyValueStore
	key string
	log *zap.Logger
}

func NewFavoritesRepository(kv KeyValueStore, key string, log *zap.Logger) *FavoritesRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &FavoritesRepository{kv: kv, key: key, log: log}
}

// Key is the storage key of the favorites set.
func (r *FavoritesRepository) Key() string {
	return r.key
}

// Get returns the stored favorites; absent or unparseable values read as empty.
func (r *FavoritesRepository) Get(ctx context.Context) (models.Favorites, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return models.Favorites{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading favorites: %w", err)
	}
	return r.decode(raw), nil
}

// Mutate applies fn to the stored set atomically and returns the set as written.
func (r *FavoritesRepository) Mutate(ctx context.Context, fn func(favs *models.Favorites) error) (models.Favorites, error) {
	var written models.Favorites
	err := r.kv.Update(ctx, r.key, func(current string, found bool) (string, error) {
		favs := models.Favorites{}
		if found {
			favs = r.decode(current)
		}
		if err := fn(&favs); err != nil {
			return "", err
		}
		data, err := json.Marshal(favs)
		if err != nil {
			return "", fmt.Errorf("encoding favorites: %w", err)
		}
		written = favs
		return string(data), nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

func (r *FavoritesRepository) decode(raw string) models.Favorites {
	var favs models.Favorites
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		r.log.Warn("discarding unparseable favorites", zap.String("key", r.key), zap.Error(err))
		return models.Favorites{}
	}
	if favs == nil {
		favs = models.Favorites{}
	}
	return favs
}

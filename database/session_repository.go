package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yashrajoria/storefront-session/models"
	"go.uber.org/zap"
)

// SessionRepository persists the credential and the cached user profile.
type SessionRepository struct {
	kv   KeyValueStore
	keys Keys
	log  *zap.Logger
}

func NewSessionRepository(kv KeyValueStore, keys Keys, log *zap.Logger) *SessionRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionRepository{kv: kv, keys: keys, log: log}
}

// LoadToken returns the persisted token, or "" when none is stored.
func (r *SessionRepository) LoadToken(ctx context.Context) (string, error) {
	token, err := r.kv.Get(ctx, r.keys.Token)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading token: %w", err)
	}
	return token, nil
}

// LoadUser returns the persisted profile. A missing or unparseable value is
// reported as nil, nil.
func (r *SessionRepository) LoadUser(ctx context.Context) (*models.UserProfile, error) {
	raw, err := r.kv.Get(ctx, r.keys.User)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	var user models.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		r.log.Warn("discarding unparseable user profile", zap.String("key", r.keys.User), zap.Error(err))
		return nil, nil
	}
	return &user, nil
}

// Save writes token and user as one atomic pair.
func (r *SessionRepository) Save(ctx context.Context, token string, user *models.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	if err := r.kv.SetMany(ctx, map[string]string{
		r.keys.Token: token,
		r.keys.User:  string(data),
	}); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// SaveUser replaces the persisted profile.
func (r *SessionRepository) SaveUser(ctx context.Context, user *models.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	if err := r.kv.Set(ctx, r.keys.User, string(data)); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// Clear removes token and user together.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.kv.RemoveMany(ctx, r.keys.Token, r.keys.User); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

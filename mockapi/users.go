package mockapi

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yashrajoria/storefront-session/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type userRecord struct {
	profile      models.UserProfile
	passwordHash []byte
}

// UserStore keeps accounts in memory, keyed by lower-cased email.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*userRecord
	byID    map[string]*userRecord
	cost    int
}

func NewUserStore() *UserStore {
	return &UserStore{
		byEmail: make(map[string]*userRecord),
		byID:    make(map[string]*userRecord),
		cost:    bcrypt.DefaultCost,
	}
}

// Create hashes the password and stores a new verified account. Sellers start
// without a store.
func (s *UserStore) Create(req models.RegisterRequest) (models.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return models.UserProfile{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		return models.UserProfile{}, ErrEmailTaken
	}

	rec := &userRecord{
		profile: models.UserProfile{
			ID:        uuid.NewString(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     email,
			Role:      req.Role,
			Status:    models.StatusVerified,
		},
		passwordHash: hash,
	}
	s.byEmail[email] = rec
	s.byID[rec.profile.ID] = rec
	return rec.profile, nil
}

// Authenticate checks the password and returns the profile.
func (s *UserStore) Authenticate(email, password string) (models.UserProfile, error) {
	s.mu.RLock()
	rec, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return models.UserProfile{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return models.UserProfile{}, ErrInvalidCredentials
	}
	return rec.profile, nil
}

func (s *UserStore) Get(id string) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return models.UserProfile{}, ErrUserNotFound
	}
	return rec.profile, nil
}

// AssignStore gives a seller a store id and returns the updated profile.
func (s *UserStore) AssignStore(id string) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[id]
	if !ok {
		return models.UserProfile{}, ErrUserNotFound
	}
	if rec.profile.StoreID == nil {
		storeID := uuid.NewString()
		rec.profile.StoreID = &storeID
	}
	return rec.profile, nil
}

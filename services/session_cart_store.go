package services

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "github.com/yashrajoria/storefront-session/common/errors"
	"github.com/yashrajoria/storefront-session/common/logger"
	"github.com/yashrajoria/storefront-session/database"
	"github.com/yashrajoria/storefront-session/models"
	"go.uber.org/zap"
)

// DefaultRequestTimeout bounds every remote call the store makes.
const DefaultRequestTimeout = 10 * time.Second

// AuthAPI is the slice of the storefront API the store depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
}

// LoginResult is what a login screen needs to decide where to go next.
type LoginResult struct {
	User            *models.UserProfile
	NeedsStoreSetup bool
}

type storeOptions struct {
	log       *zap.Logger
	keys      database.Keys
	timeout   time.Duration
	validator *RequestValidator
}

// Option configures a SessionCartStore.
type Option func(*storeOptions)

func WithLogger(log *zap.Logger) Option {
	return func(o *storeOptions) {
		o.log = log
	}
}

// WithKeyPrefix namespaces every storage key the store touches.
func WithKeyPrefix(prefix string) Option {
	return func(o *storeOptions) {
		o.keys = database.DefaultKeys(prefix)
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(o *storeOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithValidator(v *RequestValidator) Option {
	return func(o *storeOptions) {
		if v != nil {
			o.validator = v
		}
	}
}

// SessionCartStore owns the session, the cart and the favorites of one device.
// All methods are safe for concurrent use.
type SessionCartStore struct {
	api       AuthAPI
	sessions  *database.SessionRepository
	carts     *database.CartRepository
	favorites *database.FavoritesRepository
	validator *RequestValidator
	queue     *keyedQueue
	hub       *broadcaster
	log       *zap.Logger
	timeout   time.Duration

	initOnce sync.Once

	mu             sync.RWMutex
	state          SessionState
	token          string
	user           *models.UserProfile
	cartCount      int
	favoritesCount int
}

func NewSessionCartStore(api AuthAPI, kv database.KeyValueStore, opts ...Option) *SessionCartStore {
	o := storeOptions{
		log:     zap.NewNop(),
		keys:    database.DefaultKeys(""),
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = logger.OrNop(o.log)
	if o.validator == nil {
		o.validator = NewRequestValidator()
	}

	return &SessionCartStore{
		api:       api,
		sessions:  database.NewSessionRepository(kv, o.keys, o.log),
		carts:     database.NewCartRepository(kv, o.keys.Cart, o.log),
		favorites: database.NewFavoritesRepository(kv, o.keys.Favorites, o.log),
		validator: o.validator,
		queue:     newKeyedQueue(),
		hub:       newBroadcaster(),
		log:       o.log,
		timeout:   o.timeout,
		state:     StateUnknown,
	}
}

// Initialize loads the persisted session and counters. Storage failures are
// logged and the store comes up in guest mode. Only the first call does work.
func (s *SessionCartStore) Initialize(ctx context.Context) Snapshot {
	s.initOnce.Do(func() {
		token, err := s.sessions.LoadToken(ctx)
		if err != nil {
			logger.Warn(ctx, s.log, "failed to read persisted token", err)
			token = ""
		}

		var user *models.UserProfile
		if token != "" {
			if user, err = s.sessions.LoadUser(ctx); err != nil {
				logger.Warn(ctx, s.log, "failed to read persisted user", err)
				user = nil
			}
		}

		cartCount := 0
		if cart, err := s.carts.GetCart(ctx); err != nil {
			logger.Warn(ctx, s.log, "failed to read persisted cart", err)
		} else {
			cartCount = cart.Count()
		}

		favoritesCount := 0
		if favs, err := s.favorites.Get(ctx); err != nil {
			logger.Warn(ctx, s.log, "failed to read persisted favorites", err)
		} else {
			favoritesCount = len(favs)
		}

		s.mu.Lock()
		// a login that finished before Initialize wins over what was on disk
		if s.state == StateUnknown {
			s.token = token
			s.user = user
			s.state = StateGuest
			if token != "" {
				s.state = StateAuthenticated
			}
		}
		s.cartCount = cartCount
		s.favoritesCount = favoritesCount
		s.mu.Unlock()

		logger.Info(ctx, s.log, "session initialized",
			zap.Bool("authenticated", token != ""),
			zap.Int("cart_count", cartCount),
			zap.Int("favorites_count", favoritesCount),
		)
		s.publish()
	})
	return s.Snapshot()
}

// Login authenticates against the API and persists the session. Memory is only
// updated once the token and user are safely stored.
func (s *SessionCartStore) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if err := s.validator.Credentials(email, password); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.api.Login(reqCtx, email, password)
	if err != nil {
		logger.Warn(ctx, s.log, "login failed", err, zap.String("email", email))
		return nil, asAPIError(err, "Login failed. Please try again.")
	}
	if resp == nil || resp.Token == "" || resp.User == nil {
		return nil, apperrors.Protocol("Invalid response from server: missing token or user data")
	}

	if err := s.sessions.Save(ctx, resp.Token, resp.User); err != nil {
		logger.Error(ctx, s.log, "failed to persist session", err)
		return nil, apperrors.Storage("Could not save your session. Please try again.", err)
	}

	user := copyProfile(resp.User)
	s.mu.Lock()
	s.token = resp.Token
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()

	logger.Info(ctx, s.log, "user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	s.publish()

	return &LoginResult{User: copyProfile(user), NeedsStoreSetup: user.NeedsStoreSetup()}, nil
}

// Register creates an account. It does not log the user in.
func (s *SessionCartStore) Register(ctx context.Context, in RegistrationInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validator.Registration(in); err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.api.Register(reqCtx, models.RegisterRequest{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Role:      in.Role,
	})
	if err != nil {
		logger.Warn(ctx, s.log, "registration failed", err, zap.String("email", in.Email))
		return asAPIError(err, "Registration failed. Please try again.")
	}

	logger.Info(ctx, s.log, "account registered", zap.String("email", in.Email), zap.String("role", string(in.Role)))
	return nil
}

// Logout forgets the credential. Cart and favorites stay on the device.
func (s *SessionCartStore) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		logger.Error(ctx, s.log, "failed to clear session", err)
		return apperrors.Storage("Could not log out. Please try again.", err)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateGuest
	s.mu.Unlock()

	logger.Info(ctx, s.log, "user logged out")
	s.publish()
	return nil
}

// UpdateUserInfo replaces the cached profile of the logged-in user.
func (s *SessionCartStore) UpdateUserInfo(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil {
		return apperrors.Validation("Profile is required")
	}
	if !s.IsAuthenticated() {
		return apperrors.Validation("You need to be logged in to update your profile")
	}

	if err := s.sessions.SaveUser(ctx, profile); err != nil {
		logger.Error(ctx, s.log, "failed to persist profile", err)
		return apperrors.Storage("Could not save your profile. Please try again.", err)
	}

	s.mu.Lock()
	s.user = copyProfile(profile)
	s.mu.Unlock()

	s.publish()
	return nil
}

// Snapshot returns the current read-only view.
func (s *SessionCartStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe delivers the current snapshot and then every change. A subscriber
// that falls behind only sees the latest one. Call the returned func to stop.
func (s *SessionCartStore) Subscribe() (<-chan Snapshot, func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub.subscribe(s.snapshotLocked())
}

func (s *SessionCartStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionCartStore) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProfile(s.user)
}

func (s *SessionCartStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *SessionCartStore) snapshotLocked() Snapshot {
	return Snapshot{
		State:          s.state,
		Authenticated:  s.token != "",
		Token:          s.token,
		User:           copyProfile(s.user),
		CartCount:      s.cartCount,
		FavoritesCount: s.favoritesCount,
	}
}

// publish reads and sends under the read lock so a slower publisher cannot
// deliver an older snapshot after a newer one.
func (s *SessionCartStore) publish() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.hub.publish(s.snapshotLocked())
}

// ownerID is the id stamped on new cart lines.
func (s *SessionCartStore) ownerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token != "" && s.user != nil && s.user.ID != "" {
		return s.user.ID
	}
	return models.GuestOwner
}

// asAPIError keeps classified errors as they are and treats anything else as
// a transport failure.
func asAPIError(err error, fallback string) error {
	if apperrors.KindOf(err) != "" {
		return err
	}
	return apperrors.Transport(fallback, err)
}

func copyProfile(u *models.UserProfile) *models.UserProfile {
	if u == nil {
		return nil
	}
	cp := *u
	if u.StoreID != nil {
		id := *u.StoreID
		cp.StoreID = &id
	}
	if u.ProfilePicture != nil {
		pic := *u.ProfilePicture
		cp.ProfilePicture = &pic
	}
	return &cp
}

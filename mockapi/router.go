package mockapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures the development API.
type Options struct {
	JWTSecret string
	JWTTTL    time.Duration
	// RateLimit and RateBurst bound requests per client IP. Zero values use
	// 100 requests per minute with a burst of 50.
	RateLimit rate.Limit
	RateBurst int
	Logger    *zap.Logger
}

// NewRouter builds the gin engine serving the storefront auth API.
func NewRouter(opts Options) *gin.Engine {
	if opts.RateLimit == 0 {
		opts.RateLimit = rate.Every(time.Minute / 100)
	}
	if opts.RateBurst == 0 {
		opts.RateBurst = 50
	}

	tokens := NewTokenIssuer(opts.JWTSecret, opts.JWTTTL)
	handler := NewAuthHandler(NewUserStore(), tokens, opts.Logger)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(handler.log), NewRateLimiter(opts.RateLimit, opts.RateBurst).Middleware())

	r.GET("/health", Health)

	api := r.Group("/api")
	api.GET("/health", Health)

	auth := api.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	users := api.Group("/users", RequireAuth(tokens))
	users.GET("/profile", handler.Profile)

	stores := api.Group("/stores", RequireAuth(tokens), RequireRole("seller"))
	stores.POST("", handler.CreateStore)

	return r
}

package mockapi

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yashrajoria/storefront-session/common/logger"
	"github.com/yashrajoria/storefront-session/models"
	"go.uber.org/zap"
)

// AuthHandler serves the auth and profile endpoints.
type AuthHandler struct {
	users  *UserStore
	tokens *TokenIssuer
	log    *zap.Logger
}

func NewAuthHandler(users *UserStore, tokens *TokenIssuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: logger.OrNop(log)}
}

// Login handles user authentication and JWT generation
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Errors: fieldErrors(err, req)})
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid email or password"})
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		logger.Error(c.Request.Context(), h.log, "failed to sign token", err, zap.String("user_id", user.ID))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: &user, Message: "Logged in"})
}

// Register creates an account without logging it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Errors: fieldErrors(err, req)})
		return
	}

	user, err := h.users.Create(req)
	if errors.Is(err, ErrEmailTaken) {
		c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Email already exists"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), h.log, "failed to create account", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create account"})
		return
	}

	logger.Info(c.Request.Context(), h.log, "account created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	c.JSON(http.StatusCreated, models.RegisterResponse{Message: "Account created successfully"})
}

// Profile returns the caller's profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.users.Get(c.GetString(ctxUserID))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateStore assigns the calling seller a store and returns the new profile.
func (h *AuthHandler) CreateStore(c *gin.Context) {
	user, err := h.users.AssignStore(c.GetString(ctxUserID))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// fieldErrors turns binding failures into {jsonField: [messages]}.
func fieldErrors(err error, req any) map[string][]string {
	out := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = []string{"Request body must be valid JSON"}
		return out
	}

	t := reflect.TypeOf(req)
	for _, fe := range verrs {
		name := jsonName(t, fe.StructField())
		out[name] = append(out[name], bindingMessage(fe))
	}
	return out
}

func jsonName(t reflect.Type, field string) string {
	if f, ok := t.FieldByName(field); ok {
		if tag := strings.Split(f.Tag.Get("json"), ",")[0]; tag != "" {
			return tag
		}
	}
	return field
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Email is invalid"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "Is invalid"
}

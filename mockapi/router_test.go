package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/storefront-session/models"
	"golang.org/x/time/rate"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Options{JWTSecret: "test-secret", JWTTTL: time.Hour, RateLimit: rate.Inf})
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, r http.Handler, role models.Role) models.LoginResponse {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret1", Role: role,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter()

	resp := registerAndLogin(t, r, models.RoleSeller)

	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.True(t, resp.User.NeedsStoreSetup())
	assert.True(t, resp.User.IsVerified())
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Ada", "email": "nope", "password": "123", "role": "admin",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "lastName")
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
	assert.Contains(t, body.Errors, "role")
	assert.NotContains(t, body.Errors, "firstName")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newTestRouter()
	registerAndLogin(t, r, models.RoleUser)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		FirstName: "Ada", LastName: "L", Email: "ADA@example.com", Password: "secret1", Role: models.RoleUser,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestRouter()
	registerAndLogin(t, r, models.RoleUser)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "ada@example.com", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid email or password"}`, rec.Body.String())
}

func TestProfileRequiresToken(t *testing.T) {
	r := newTestRouter()
	resp := registerAndLogin(t, r, models.RoleUser)

	rec := doJSON(t, r, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/users/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/users/profile", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), resp.User.ID)
}

func TestCreateStore(t *testing.T) {
	t.Run("Seller gets a store", func(t *testing.T) {
		r := newTestRouter()
		resp := registerAndLogin(t, r, models.RoleSeller)

		rec := doJSON(t, r, http.MethodPost, "/api/stores", resp.Token, nil)

		require.Equal(t, http.StatusCreated, rec.Code)
		var profile models.UserProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
		assert.False(t, profile.NeedsStoreSetup())
	})

	t.Run("Buyer is forbidden", func(t *testing.T) {
		r := newTestRouter()
		resp := registerAndLogin(t, r, models.RoleUser)

		rec := doJSON(t, r, http.MethodPost, "/api/stores", resp.Token, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Options{JWTSecret: "s", RateLimit: rate.Every(time.Hour), RateBurst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, doJSON(t, r, http.MethodGet, "/health", "", nil).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

package services_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/storefront-session/clients"
	apperrors "github.com/yashrajoria/storefront-session/common/errors"
	"github.com/yashrajoria/storefront-session/database"
	"github.com/yashrajoria/storefront-session/mockapi"
	"github.com/yashrajoria/storefront-session/models"
	"github.com/yashrajoria/storefront-session/services"
	"golang.org/x/time/rate"
)

func TestStoreAgainstMockAPI(t *testing.T) {
	ctx := context.Background()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(mockapi.NewRouter(mockapi.Options{JWTSecret: "it-secret", RateLimit: rate.Inf}))
	t.Cleanup(srv.Close)

	dbPath := filepath.Join(t.TempDir(), "storefront.db")
	kv, err := database.NewStore(ctx, database.StoreTypeSQLite, database.WithSQLitePath(dbPath))
	require.NoError(t, err)

	api := clients.NewAPIClient(srv.URL+"/api/", 5*time.Second, nil)
	store := services.NewSessionCartStore(api, kv, services.WithKeyPrefix("it:"))
	store.Initialize(ctx)

	err = store.Register(ctx, services.RegistrationInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Password: "secret1", ConfirmPassword: "secret1", Role: models.RoleSeller,
	})
	require.NoError(t, err)
	assert.False(t, store.IsAuthenticated())

	err = store.Register(ctx, services.RegistrationInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Password: "secret1", ConfirmPassword: "secret1", Role: models.RoleSeller,
	})
	assert.Equal(t, "Email already exists", apperrors.MessageOf(err))

	_, err = store.Login(ctx, "ada@example.com", "wrong-password")
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "Invalid email or password", apperrors.MessageOf(err))

	result, err := store.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, result.NeedsStoreSetup)

	product := &models.Product{ID: "p1", Name: "Tee", Price: decPtr(t, "19.99")}
	_, err = store.AddToCart(ctx, product, 0, 2, services.WithSize("L"))
	require.NoError(t, err)

	profile, err := api.WithToken(store.Token()).CreateStore(ctx)
	require.NoError(t, err)
	require.NoError(t, store.UpdateUserInfo(ctx, profile))
	assert.False(t, store.User().NeedsStoreSetup())

	require.NoError(t, kv.Close())

	// a fresh process sees the same session and cart
	kv, err = database.NewStore(ctx, database.StoreTypeSQLite, database.WithSQLitePath(dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	reopened := services.NewSessionCartStore(api, kv, services.WithKeyPrefix("it:"))
	snap := reopened.Initialize(ctx)
	assert.True(t, snap.Authenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, result.User.ID, snap.User.ID)
	assert.NotNil(t, snap.User.StoreID)
	assert.Equal(t, 1, snap.CartCount)

	total, err := reopened.CartTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "39.98", total.String())

	me, err := api.WithToken(reopened.Token()).Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.User.ID, me.ID)
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

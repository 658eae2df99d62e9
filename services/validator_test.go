package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/yashrajoria/storefront-session/common/errors"
	"github.com/yashrajoria/storefront-session/models"
)

func TestRequestValidator(t *testing.T) {
	rv := NewRequestValidator()

	t.Run("Credentials", func(t *testing.T) {
		assert.NoError(t, rv.Credentials("ada@example.com", "x"))

		err := rv.Credentials("", "")
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Equal(t, "Email is required\nPassword is required", apperrors.MessageOf(err))

		err = rv.Credentials("not-an-email", "x")
		assert.Equal(t, "Please enter a valid email address", apperrors.MessageOf(err))
	})

	t.Run("Registration", func(t *testing.T) {
		in := RegistrationInput{
			FirstName:       "Ada",
			LastName:        "Lovelace",
			Email:           "ada@example.com",
			Password:        "secret1",
			ConfirmPassword: "secret1",
			Role:            models.RoleUser,
		}
		assert.NoError(t, rv.Registration(in))

		short := in
		short.Password, short.ConfirmPassword = "abc", "abc"
		assert.Equal(t, "Password must be at least 6 characters", apperrors.MessageOf(rv.Registration(short)))

		mismatch := in
		mismatch.ConfirmPassword = "secret2"
		assert.Equal(t, "Passwords do not match", apperrors.MessageOf(rv.Registration(mismatch)))

		badRole := in
		badRole.Role = "admin"
		assert.Equal(t, "Account type must be one of: user, seller", apperrors.MessageOf(rv.Registration(badRole)))
	})

	t.Run("Product", func(t *testing.T) {
		assert.NoError(t, rv.Product(&models.Product{ID: "p1"}))
		assert.True(t, apperrors.IsKind(rv.Product(nil), apperrors.KindValidation))
		assert.Equal(t, "Product id is required", apperrors.MessageOf(rv.Product(&models.Product{Name: "x"})))
	})
}

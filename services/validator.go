package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/yashrajoria/storefront-session/common/errors"
	"github.com/yashrajoria/storefront-session/models"
)

// credentials is what Login checks before touching the network.
type credentials struct {
	Email    string `validate:"required,email" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

// RegistrationInput is what a sign-up screen collects.
type RegistrationInput struct {
	FirstName       string      `validate:"required" label:"First name"`
	LastName        string      `validate:"required" label:"Last name"`
	Email           string      `validate:"required,email" label:"Email"`
	Password        string      `validate:"required,min=6" label:"Password"`
	ConfirmPassword string      `validate:"required,eqfield=Password" label:"Confirm password"`
	Role            models.Role `validate:"required,oneof=user seller" label:"Account type"`
}

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return &RequestValidator{validate: v}
}

// Credentials validates login input.
func (rv *RequestValidator) Credentials(email, password string) error {
	return rv.check(credentials{Email: email, Password: password})
}

// Registration validates sign-up input.
func (rv *RequestValidator) Registration(in RegistrationInput) error {
	return rv.check(in)
}

// Product validates the product contract once, at the boundary.
func (rv *RequestValidator) Product(p *models.Product) error {
	if p == nil {
		return apperrors.Validation("Product is required")
	}
	return rv.check(p)
}

func (rv *RequestValidator) check(v any) error {
	err := rv.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.New(apperrors.KindValidation, 0, "Invalid input", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperrors.Validation(strings.Join(msgs, "\n"))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

package app

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil, "Stripe", "msg", "", ""))

	plain := errors.New("boom")
	assert.Same(t, plain, translateError(plain, "Stripe", "msg", resourceSubscription, "sub_1"))

	err := translateError(&stripe.Error{HTTPStatusCode: http.StatusUnauthorized}, "Stripe", "msg", "", "")
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "SecretKey", ce.Setting)

	err = translateError(notFound("subscription", "sub_1"), "Stripe", "msg", resourceSubscription, "sub_1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, `subscription "sub_1" not found`)

	err = translateError(notFound("price", "price_1"), "Stripe", "msg", "", "")
	assert.ErrorIs(t, err, ErrPayment)

	wrapped := fmt.Errorf("gateway: %w", &stripe.Error{
		HTTPStatusCode: http.StatusBadRequest,
		Msg:            "No such price",
		RequestID:      "req_9",
	})
	err = translateError(wrapped, "Stripe", "payment processing failed", "", "")
	var pe *PaymentError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "400", pe.Code)
	assert.Equal(t, http.StatusBadRequest, pe.HTTPStatus)
	assert.Equal(t, "payment processing failed: No such price", pe.Message)
	assert.Equal(t, "req_9", pe.RequestID)
}

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []error{ErrValidation, ErrNotFound, ErrPayment, ErrConfiguration}
	errs := []error{
		&ValidationError{Field: "email", Reason: "is required"},
		&NotFoundError{Resource: "subscription", ID: "sub_1"},
		&PaymentError{Message: "declined", Code: "card_declined", Provider: "Stripe"},
		&ConfigurationError{Setting: "SecretKey", Reason: "is required"},
	}
	for i, err := range errs {
		for j, kind := range kinds {
			assert.Equal(t, i == j, errors.Is(err, kind), "%v vs %v", err, kind)
		}
	}
	assert.EqualError(t, errs[0], "validation error: email is required")
	assert.EqualError(t, errs[2], "payment error: declined (provider=Stripe code=card_declined)")
}

func TestIsAlreadyAttached(t *testing.T) {
	assert.True(t, isAlreadyAttached(&stripe.Error{Code: "resource_already_exists"}))
	assert.True(t, isAlreadyAttached(&stripe.Error{Msg: "This PaymentMethod has already been attached to a customer."}))
	assert.False(t, isAlreadyAttached(&stripe.Error{Code: stripe.ErrorCodeCardDeclined}))
	assert.False(t, isAlreadyAttached(errors.New("already been attached")))
}

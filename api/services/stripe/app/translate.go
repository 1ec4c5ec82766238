package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
)

const (
	resourceCustomer     = "customer"
	resourceSubscription = "subscription"
)

// translateError classifies a gateway failure. When resource is empty a
// not-found response is treated as a payment rejection instead of a
// NotFoundError. Errors that did not come from Stripe are returned unchanged.
func translateError(err error, provider, message, resource, id string) error {
	if err == nil {
		return nil
	}
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	if se.HTTPStatusCode == http.StatusUnauthorized {
		return &ConfigurationError{Setting: "SecretKey", Reason: "rejected by provider"}
	}
	if resource != "" && isNotFound(se) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return newPaymentError(se, provider, message)
}

func newPaymentError(se *stripe.Error, provider, message string) *PaymentError {
	code := string(se.Code)
	if code == "" {
		code = strconv.Itoa(se.HTTPStatusCode)
	}
	msg := message
	if se.Msg != "" {
		msg = fmt.Sprintf("%s: %s", message, se.Msg)
	}
	return &PaymentError{
		Message:    msg,
		Code:       code,
		HTTPStatus: se.HTTPStatusCode,
		Provider:   provider,
		RequestID:  se.RequestID,
	}
}

func isNotFound(se *stripe.Error) bool {
	return se.HTTPStatusCode == http.StatusNotFound || se.Code == stripe.ErrorCodeResourceMissing
}

func isNotFoundErr(err error) bool {
	var se *stripe.Error
	return errors.As(err, &se) && isNotFound(se)
}

// isAlreadyAttached reports whether an attach call failed because the payment
// method is already attached to some customer. The owner must be checked
// separately.
func isAlreadyAttached(err error) bool {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code == "resource_already_exists" {
		return true
	}
	return strings.Contains(strings.ToLower(se.Msg), "already been attached")
}

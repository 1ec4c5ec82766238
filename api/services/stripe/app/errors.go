package app

import (
	"errors"
	"fmt"
)

// Error kinds for the Stripe app layer. Every failure leaving this package is
// one of these (match with errors.Is) or an unclassified error returned
// unchanged. SDK error types never cross the package boundary.
var (
	// ErrValidation indicates the caller's input is malformed. Raised before
	// any gateway call.
	ErrValidation = errors.New("validation error")
	// ErrNotFound indicates the gateway reports the referenced resource absent.
	ErrNotFound = errors.New("not found")
	// ErrPayment indicates the gateway processed the request but rejected it.
	ErrPayment = errors.New("payment error")
	// ErrConfiguration indicates the library itself is misconfigured.
	ErrConfiguration = errors.New("configuration error")
)

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%v: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a resource the gateway does not know.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q %v", e.Resource, e.ID, ErrNotFound)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PaymentError is an upstream business-rule rejection (card declined,
// invalid state transition, ...). Code is the provider error code when one
// was reported, otherwise the HTTP status code.
type PaymentError struct {
	Message    string
	Code       string
	HTTPStatus int
	Provider   string
	RequestID  string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%v: %s (provider=%s code=%s)", ErrPayment, e.Message, e.Provider, e.Code)
}

func (e *PaymentError) Is(target error) bool { return target == ErrPayment }

// ConfigurationError names the setting that is missing or rejected.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrConfiguration, e.Setting, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

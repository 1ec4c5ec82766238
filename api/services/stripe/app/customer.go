package app

import (
	"context"
	"errors"

	stripe "github.com/stripe/stripe-go/v82"
)

// resolveCustomer finds or creates the customer for a subscription request:
// by id, then by exact email, then by creating a new one. Lookups that miss
// fall through to the next step.
//
// The list-then-create sequence is not atomic: concurrent requests for the
// same new email can each create a customer.
func (s *StripeSubscriptionService) resolveCustomer(ctx context.Context, req CreateSubscriptionRequest) (stripe.Customer, error) {
	logger := s.logFor(ctx)
	if req.CustomerID != "" {
		cust, err := s.gw.GetCustomer(ctx, req.CustomerID, nil)
		switch {
		case err == nil && !cust.Deleted && cust.ID != "":
			logger.Info().Str("customer_id", cust.ID).Msg("found existing customer")
			return cust, nil
		case err == nil || isNotFoundErr(err):
			logger.Warn().Str("customer_id", req.CustomerID).Msg("customer not found, will search by email or create new")
		default:
			return stripe.Customer{}, err
		}
	}

	if req.Email != "" {
		params := &stripe.CustomerListParams{Email: stripe.String(req.Email)}
		params.Limit = stripe.Int64(1)
		existing, err := s.gw.ListCustomers(ctx, params)
		if err != nil {
			return stripe.Customer{}, err
		}
		if len(existing) > 0 {
			logger.Info().Str("customer_id", existing[0].ID).Msg("found existing customer by email")
			return existing[0], nil
		}
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	params := &stripe.CustomerParams{
		Email: stripe.String(req.Email),
		Name:  stripe.String(req.FullName),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	cust, err := s.gw.CreateCustomer(ctx, params)
	if err != nil {
		return stripe.Customer{}, err
	}
	logger.Info().Str("customer_id", cust.ID).Msg("created new customer")
	return cust, nil
}

// attachPaymentMethod binds paymentMethodID to the customer. A method already
// attached to the same customer counts as success; one owned by another
// customer keeps the attach error.
func (s *StripeSubscriptionService) attachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	_, err := s.gw.AttachPaymentMethod(ctx, paymentMethodID, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	})
	if err == nil || !isAlreadyAttached(err) {
		return err
	}

	logger := s.logFor(ctx).With().
		Str("customer_id", customerID).
		Str("payment_method_id", paymentMethodID).
		Logger()
	pm, getErr := s.gw.GetPaymentMethod(ctx, paymentMethodID, nil)
	if getErr != nil {
		logger.Warn().Err(getErr).Msg("could not confirm payment method owner")
		return err
	}
	if pm.Customer == nil || pm.Customer.ID != customerID {
		logger.Warn().Msg("payment method is attached to another customer")
		return err
	}
	logger.Debug().Msg("payment method already attached")
	return nil
}

// errCustomerUnresolved guards against a gateway that returns neither a
// customer nor an error.
var errCustomerUnresolved = errors.New("customer resolution returned no id")

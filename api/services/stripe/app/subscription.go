package app

import (
	"context"
	"errors"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/tbeaudouin05/stripe-subscriptions/api/metrics"
)

const (
	saveDefaultOnSubscription = "on_subscription"
	saveDefaultOff            = "off"
)

func recordOp(op string, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		outcome = "validation_error"
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrPayment):
		outcome = "payment_error"
	case errors.Is(err, ErrConfiguration):
		outcome = "configuration_error"
	default:
		outcome = metrics.OutcomeError
	}
	metrics.SubscriptionOperationsTotal.WithLabelValues(op, outcome).Inc()
}

// CreateSubscription resolves the customer, attaches the payment method and
// creates a single-item subscription. A customer created along the way is
// kept even if a later step fails.
func (s *StripeSubscriptionService) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (details SubscriptionDetails, err error) {
	defer func() { recordOp("create", err) }()

	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	req.PriceID = strings.TrimSpace(req.PriceID)
	if err := validateStruct(req); err != nil {
		return SubscriptionDetails{}, err
	}

	logger := s.logFor(ctx).With().Str("email", req.Email).Str("price_id", req.PriceID).Logger()
	logger.Info().Msg("creating subscription")

	sub, err := s.createSubscription(ctx, req)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			logger.Error().Err(err).Msg("stripe error creating subscription")
			return SubscriptionDetails{}, translateError(err, s.cfg.ProviderName, "payment processing failed", "", "")
		}
		logger.Error().Err(err).Msg("unexpected error creating subscription")
		return SubscriptionDetails{}, err
	}

	logger.Info().Str("subscription_id", sub.ID).Str("status", string(sub.Status)).Msg("subscription created")
	return s.mapSubscription(sub), nil
}

func (s *StripeSubscriptionService) createSubscription(ctx context.Context, req CreateSubscriptionRequest) (stripe.Subscription, error) {
	cust, err := s.resolveCustomer(ctx, req)
	if err != nil {
		return stripe.Subscription{}, err
	}
	if cust.ID == "" {
		return stripe.Subscription{}, errCustomerUnresolved
	}
	if req.PaymentMethodID != "" {
		if err := s.attachPaymentMethod(ctx, cust.ID, req.PaymentMethodID); err != nil {
			return stripe.Subscription{}, err
		}
	}
	return s.gw.CreateSubscription(ctx, s.buildCreateParams(cust.ID, req))
}

func (s *StripeSubscriptionService) buildCreateParams(customerID string, req CreateSubscriptionRequest) *stripe.SubscriptionParams {
	quantity := int64(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	saveDefault := saveDefaultOff
	if s.cfg.SubscriptionDefaults.SaveDefaultPaymentMethod {
		saveDefault = saveDefaultOnSubscription
	}

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(quantity),
			},
		},
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String(saveDefault),
		},
	}
	if types := s.cfg.PaymentOptions.PaymentMethodTypes; len(types) > 0 {
		params.PaymentSettings.PaymentMethodTypes = stripe.StringSlice(types)
	}
	if req.PaymentMethodID != "" {
		params.DefaultPaymentMethod = stripe.String(req.PaymentMethodID)
	}
	if b := s.cfg.PaymentOptions.PaymentBehavior; b != "" {
		params.PaymentBehavior = stripe.String(b)
	}
	switch {
	case req.TrialPeriodDays != nil:
		params.TrialPeriodDays = stripe.Int64(*req.TrialPeriodDays)
	case s.cfg.SubscriptionDefaults.DefaultTrialDays != nil:
		params.TrialPeriodDays = stripe.Int64(*s.cfg.SubscriptionDefaults.DefaultTrialDays)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	for _, e := range s.cfg.SubscriptionDefaults.DefaultExpand {
		params.AddExpand(e)
	}
	return params
}

// GetSubscription fetches a subscription with the configured expansions.
func (s *StripeSubscriptionService) GetSubscription(ctx context.Context, subscriptionID string) (details SubscriptionDetails, err error) {
	defer func() { recordOp("get", err) }()

	if err := requireID("subscriptionId", subscriptionID); err != nil {
		return SubscriptionDetails{}, err
	}
	params := &stripe.SubscriptionParams{}
	for _, e := range s.cfg.SubscriptionDefaults.DefaultExpand {
		params.AddExpand(e)
	}
	sub, err := s.gw.GetSubscription(ctx, subscriptionID, params)
	if err != nil {
		s.logFor(ctx).Error().Err(err).Str("subscription_id", subscriptionID).Msg("error getting subscription")
		return SubscriptionDetails{}, translateError(err, s.cfg.ProviderName, "failed to retrieve subscription", resourceSubscription, subscriptionID)
	}
	return s.mapSubscription(sub), nil
}

// UpdateSubscription swaps the price or quantity of the single billable item
// and optionally changes cancel-at-period-end or the trial end.
func (s *StripeSubscriptionService) UpdateSubscription(ctx context.Context, subscriptionID string, req UpdateSubscriptionRequest) (res UpdateSubscriptionResult, err error) {
	defer func() { recordOp("update", err) }()

	if err := requireID("subscriptionId", subscriptionID); err != nil {
		return UpdateSubscriptionResult{}, err
	}
	req.NewPriceID = strings.TrimSpace(req.NewPriceID)
	if err := validateStruct(req); err != nil {
		return UpdateSubscriptionResult{}, err
	}

	logger := s.logFor(ctx).With().Str("subscription_id", subscriptionID).Logger()
	logger.Info().Msg("updating subscription")

	current, err := s.gw.GetSubscription(ctx, subscriptionID, nil)
	if err != nil {
		logger.Error().Err(err).Msg("error fetching subscription for update")
		return UpdateSubscriptionResult{}, translateError(err, s.cfg.ProviderName, "failed to update subscription", resourceSubscription, subscriptionID)
	}
	if n := itemCount(current); n != 1 {
		reason := "must have exactly one item"
		if n == 0 {
			reason = "has no items to update"
		}
		return UpdateSubscriptionResult{}, &ValidationError{Field: "items", Reason: reason}
	}

	updated, err := s.gw.UpdateSubscription(ctx, subscriptionID, buildUpdateParams(firstItem(current), req))
	if err != nil {
		logger.Error().Err(err).Msg("failed to update subscription")
		return UpdateSubscriptionResult{}, translateError(err, s.cfg.ProviderName, "failed to update subscription", resourceSubscription, subscriptionID)
	}
	logger.Info().Str("status", string(updated.Status)).Msg("subscription updated")
	return MapUpdateResult(updated), nil
}

func buildUpdateParams(item *stripe.SubscriptionItem, req UpdateSubscriptionRequest) *stripe.SubscriptionParams {
	itemParams := &stripe.SubscriptionItemsParams{
		ID:       stripe.String(item.ID),
		Quantity: stripe.Int64(item.Quantity),
	}
	if req.NewPriceID != "" {
		itemParams.Price = stripe.String(req.NewPriceID)
	}
	if req.Quantity != nil {
		itemParams.Quantity = stripe.Int64(*req.Quantity)
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{itemParams},
	}
	if req.CancelAtPeriodEnd != nil {
		params.CancelAtPeriodEnd = stripe.Bool(*req.CancelAtPeriodEnd)
	}
	if req.TrialEnd != nil {
		trialEnd := time.Unix(*req.TrialEnd, 0).UTC()
		params.TrialEnd = stripe.Int64(trialEnd.Unix())
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}

// CancelSubscription ends a subscription. With immediate=false the
// subscription keeps its status until the period ends.
func (s *StripeSubscriptionService) CancelSubscription(ctx context.Context, subscriptionID string, immediate bool) (res CancelSubscriptionResult, err error) {
	defer func() { recordOp("cancel", err) }()

	if err := requireID("subscriptionId", subscriptionID); err != nil {
		return CancelSubscriptionResult{}, err
	}
	logger := s.logFor(ctx).With().Str("subscription_id", subscriptionID).Bool("immediate", immediate).Logger()

	var sub stripe.Subscription
	if immediate {
		sub, err = s.gw.CancelSubscription(ctx, subscriptionID, &stripe.SubscriptionCancelParams{})
	} else {
		sub, err = s.gw.UpdateSubscription(ctx, subscriptionID, &stripe.SubscriptionParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		})
	}
	if err != nil {
		logger.Error().Err(err).Msg("error cancelling subscription")
		return CancelSubscriptionResult{}, translateError(err, s.cfg.ProviderName, "failed to cancel subscription", resourceSubscription, subscriptionID)
	}
	logger.Info().Str("status", string(sub.Status)).Msg("subscription cancelled")
	return MapCancelResult(sub), nil
}

// ListCustomerSubscriptions returns the customer's subscriptions in every
// status. Only the first page returned by the gateway is mapped.
func (s *StripeSubscriptionService) ListCustomerSubscriptions(ctx context.Context, customerID string) (out []SubscriptionDetails, err error) {
	defer func() { recordOp("list", err) }()

	if err := requireID("customerId", customerID); err != nil {
		return nil, err
	}
	subs, err := s.gw.ListSubscriptions(ctx, &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	})
	if err != nil {
		s.logFor(ctx).Error().Err(err).Str("customer_id", customerID).Msg("error listing subscriptions")
		return nil, translateError(err, s.cfg.ProviderName, "failed to list subscriptions", resourceCustomer, customerID)
	}
	out = make([]SubscriptionDetails, 0, len(subs))
	for _, sub := range subs {
		out = append(out, s.mapSubscription(sub))
	}
	return out, nil
}

// ValidateSubscription re-fetches the subscription and reports whether it is
// active or trialing. Every failure is reported as false.
func (s *StripeSubscriptionService) ValidateSubscription(ctx context.Context, subscriptionID string) (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logFor(ctx).Error().Interface("panic", r).Str("subscription_id", subscriptionID).Msg("subscription validation panicked")
			valid = false
		}
	}()

	details, err := s.GetSubscription(ctx, subscriptionID)
	if err != nil {
		s.logFor(ctx).Debug().Err(err).Str("subscription_id", subscriptionID).Msg("subscription validation failed closed")
		return false
	}
	return details.IsValid()
}

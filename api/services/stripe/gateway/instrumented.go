package gateway

import (
	"context"
	"errors"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/tbeaudouin05/stripe-subscriptions/api/metrics"
)

// instrumented records request counts and latency for every call made
// through the wrapped gateway.
type instrumented struct{ next StripeGateway }

// Instrument wraps g so each call is reported to the gateway metrics.
func Instrument(g StripeGateway) StripeGateway { return instrumented{next: g} }

func observe(operation string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		var se *stripe.Error
		if errors.As(err, &se) {
			outcome = metrics.OutcomeStripeError
		}
	}
	metrics.GatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
	metrics.GatewayDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (i instrumented) GetCustomer(ctx context.Context, id string, params *stripe.CustomerParams) (c stripe.Customer, err error) {
	defer func(start time.Time) { observe("get_customer", start, err) }(time.Now())
	return i.next.GetCustomer(ctx, id, params)
}

func (i instrumented) ListCustomers(ctx context.Context, params *stripe.CustomerListParams) (cs []stripe.Customer, err error) {
	defer func(start time.Time) { observe("list_customers", start, err) }(time.Now())
	return i.next.ListCustomers(ctx, params)
}

func (i instrumented) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (c stripe.Customer, err error) {
	defer func(start time.Time) { observe("create_customer", start, err) }(time.Now())
	return i.next.CreateCustomer(ctx, params)
}

func (i instrumented) AttachPaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodAttachParams) (pm stripe.PaymentMethod, err error) {
	defer func(start time.Time) { observe("attach_payment_method", start, err) }(time.Now())
	return i.next.AttachPaymentMethod(ctx, id, params)
}

func (i instrumented) GetPaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodParams) (pm stripe.PaymentMethod, err error) {
	defer func(start time.Time) { observe("get_payment_method", start, err) }(time.Now())
	return i.next.GetPaymentMethod(ctx, id, params)
}

func (i instrumented) CreateSubscription(ctx context.Context, params *stripe.SubscriptionParams) (s stripe.Subscription, err error) {
	defer func(start time.Time) { observe("create_subscription", start, err) }(time.Now())
	return i.next.CreateSubscription(ctx, params)
}

func (i instrumented) GetSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (s stripe.Subscription, err error) {
	defer func(start time.Time) { observe("get_subscription", start, err) }(time.Now())
	return i.next.GetSubscription(ctx, id, params)
}

func (i instrumented) UpdateSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (s stripe.Subscription, err error) {
	defer func(start time.Time) { observe("update_subscription", start, err) }(time.Now())
	return i.next.UpdateSubscription(ctx, id, params)
}

func (i instrumented) CancelSubscription(ctx context.Context, id string, params *stripe.SubscriptionCancelParams) (s stripe.Subscription, err error) {
	defer func(start time.Time) { observe("cancel_subscription", start, err) }(time.Now())
	return i.next.CancelSubscription(ctx, id, params)
}

func (i instrumented) ListSubscriptions(ctx context.Context, params *stripe.SubscriptionListParams) (ss []stripe.Subscription, err error) {
	defer func(start time.Time) { observe("list_subscriptions", start, err) }(time.Now())
	return i.next.ListSubscriptions(ctx, params)
}

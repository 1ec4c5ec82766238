package stripegw

import (
	"context"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/paymentmethod"
	"github.com/stripe/stripe-go/v82/subscription"

	gw "github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/gateway"
)

// client is the Stripe SDK-backed implementation of the gateway. Each
// resource client carries its own key, so the process-wide stripe.Key is
// never touched.
type client struct {
	customers      customer.Client
	paymentMethods paymentmethod.Client
	subscriptions  subscription.Client
}

// New returns a StripeGateway backed by the official Stripe SDK. Network
// retries are disabled: a failed call surfaces immediately to the caller.
// SDK diagnostics are written to logger.
func New(secretKey string, logger zerolog.Logger) gw.StripeGateway {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     leveledLogger{logger.With().Str("component", "stripe-sdk").Logger()},
	})
	return newClient(secretKey, backend)
}

func newClient(secretKey string, backend stripe.Backend) client {
	return client{
		customers:      customer.Client{B: backend, Key: secretKey},
		paymentMethods: paymentmethod.Client{B: backend, Key: secretKey},
		subscriptions:  subscription.Client{B: backend, Key: secretKey},
	}
}

func (c client) GetCustomer(ctx context.Context, id string, params *stripe.CustomerParams) (stripe.Customer, error) {
	if params == nil {
		params = &stripe.CustomerParams{}
	}
	params.Context = ctx
	custPtr, err := c.customers.Get(id, params)
	if err != nil {
		return stripe.Customer{}, err
	}
	if custPtr == nil {
		return stripe.Customer{}, nil
	}
	return *custPtr, nil
}

func (c client) ListCustomers(ctx context.Context, params *stripe.CustomerListParams) ([]stripe.Customer, error) {
	if params == nil {
		params = &stripe.CustomerListParams{}
	}
	params.Context = ctx
	params.Single = true
	it := c.customers.List(params)
	var out []stripe.Customer
	for it.Next() {
		if cust := it.Customer(); cust != nil {
			out = append(out, *cust)
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c client) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (stripe.Customer, error) {
	if params == nil {
		params = &stripe.CustomerParams{}
	}
	params.Context = ctx
	custPtr, err := c.customers.New(params)
	if err != nil {
		return stripe.Customer{}, err
	}
	if custPtr == nil {
		return stripe.Customer{}, nil
	}
	return *custPtr, nil
}

func (c client) AttachPaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodAttachParams) (stripe.PaymentMethod, error) {
	if params == nil {
		params = &stripe.PaymentMethodAttachParams{}
	}
	params.Context = ctx
	pmPtr, err := c.paymentMethods.Attach(id, params)
	if err != nil {
		return stripe.PaymentMethod{}, err
	}
	if pmPtr == nil {
		return stripe.PaymentMethod{}, nil
	}
	return *pmPtr, nil
}

func (c client) GetPaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodParams) (stripe.PaymentMethod, error) {
	if params == nil {
		params = &stripe.PaymentMethodParams{}
	}
	params.Context = ctx
	pmPtr, err := c.paymentMethods.Get(id, params)
	if err != nil {
		return stripe.PaymentMethod{}, err
	}
	if pmPtr == nil {
		return stripe.PaymentMethod{}, nil
	}
	return *pmPtr, nil
}

func (c client) CreateSubscription(ctx context.Context, params *stripe.SubscriptionParams) (stripe.Subscription, error) {
	if params == nil {
		params = &stripe.SubscriptionParams{}
	}
	params.Context = ctx
	return deref(c.subscriptions.New(params))
}

func (c client) GetSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (stripe.Subscription, error) {
	if params == nil {
		params = &stripe.SubscriptionParams{}
	}
	params.Context = ctx
	return deref(c.subscriptions.Get(id, params))
}

func (c client) UpdateSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (stripe.Subscription, error) {
	if params == nil {
		params = &stripe.SubscriptionParams{}
	}
	params.Context = ctx
	return deref(c.subscriptions.Update(id, params))
}

func (c client) CancelSubscription(ctx context.Context, id string, params *stripe.SubscriptionCancelParams) (stripe.Subscription, error) {
	if params == nil {
		params = &stripe.SubscriptionCancelParams{}
	}
	params.Context = ctx
	return deref(c.subscriptions.Cancel(id, params))
}

func (c client) ListSubscriptions(ctx context.Context, params *stripe.SubscriptionListParams) ([]stripe.Subscription, error) {
	if params == nil {
		params = &stripe.SubscriptionListParams{}
	}
	params.Context = ctx
	params.Single = true
	it := c.subscriptions.List(params)
	var out []stripe.Subscription
	for it.Next() {
		if s := it.Subscription(); s != nil {
			out = append(out, *s)
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func deref(subPtr *stripe.Subscription, err error) (stripe.Subscription, error) {
	if err != nil {
		return stripe.Subscription{}, err
	}
	if subPtr == nil {
		return stripe.Subscription{}, nil
	}
	return *subPtr, nil
}

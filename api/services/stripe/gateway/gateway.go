package gateway

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/gateway StripeGateway

// StripeGateway abstracts Stripe SDK operations needed by the app layer.
// Callers build the provider-native params; the gateway only attaches the
// context and performs the call. Methods return values (not pointers) to
// respect the project's preference to avoid pointer types in public interfaces.
type StripeGateway interface {
	GetCustomer(ctx context.Context, id string, params *stripe.CustomerParams) (stripe.Customer, error)
	// ListCustomers returns a single page; auto-pagination is disabled.
	ListCustomers(ctx context.Context, params *stripe.CustomerListParams) ([]stripe.Customer, error)
	CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (stripe.Customer, error)

	AttachPaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodAttachParams) (stripe.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodParams) (stripe.PaymentMethod, error)

	CreateSubscription(ctx context.Context, params *stripe.SubscriptionParams) (stripe.Subscription, error)
	GetSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (stripe.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (stripe.Subscription, error)
	CancelSubscription(ctx context.Context, id string, params *stripe.SubscriptionCancelParams) (stripe.Subscription, error)
	// ListSubscriptions returns a single page; auto-pagination is disabled.
	ListSubscriptions(ctx context.Context, params *stripe.SubscriptionListParams) ([]stripe.Subscription, error)
}

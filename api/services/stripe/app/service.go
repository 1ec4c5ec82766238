package app

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/tbeaudouin05/stripe-subscriptions/api/config"
	"github.com/tbeaudouin05/stripe-subscriptions/api/logging"
	gw "github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/gateway"
)

// PaymentProvider identifies the payment provider behind a service.
type PaymentProvider interface {
	ProviderName() string
}

// SubscriptionService defines the subscription lifecycle operations.
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (SubscriptionDetails, error)
	GetSubscription(ctx context.Context, subscriptionID string) (SubscriptionDetails, error)
	UpdateSubscription(ctx context.Context, subscriptionID string, req UpdateSubscriptionRequest) (UpdateSubscriptionResult, error)
	// CancelSubscription cancels now when immediate is true, otherwise at the
	// end of the current period.
	CancelSubscription(ctx context.Context, subscriptionID string, immediate bool) (CancelSubscriptionResult, error)
	ListCustomerSubscriptions(ctx context.Context, customerID string) ([]SubscriptionDetails, error)
	// ValidateSubscription never fails: any error yields false.
	ValidateSubscription(ctx context.Context, subscriptionID string) bool
}

var (
	_ PaymentProvider     = (*StripeSubscriptionService)(nil)
	_ SubscriptionService = (*StripeSubscriptionService)(nil)
)

// StripeSubscriptionService orchestrates subscriptions against Stripe. It
// holds no mutable state and is safe for concurrent use.
type StripeSubscriptionService struct {
	cfg config.Config
	gw  gw.StripeGateway
	log zerolog.Logger
}

// Option customizes a StripeSubscriptionService.
type Option func(*StripeSubscriptionService)

// WithLogger sets the logger used for operation logs.
func WithLogger(l zerolog.Logger) Option {
	return func(s *StripeSubscriptionService) { s.log = l }
}

// NewService validates cfg and returns a service bound to g. A missing secret
// key or provider name fails with a ConfigurationError.
func NewService(cfg config.Config, g gw.StripeGateway, opts ...Option) (*StripeSubscriptionService, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, &ConfigurationError{Setting: "SecretKey", Reason: "is required"}
	}
	if strings.TrimSpace(cfg.ProviderName) == "" {
		return nil, &ConfigurationError{Setting: "ProviderName", Reason: "is required"}
	}
	if g == nil {
		return nil, &ConfigurationError{Setting: "Gateway", Reason: "is required"}
	}
	s := &StripeSubscriptionService{
		cfg: cfg.Clone(),
		gw:  g,
		log: log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("provider", s.cfg.ProviderName).Logger()
	return s, nil
}

// ProviderName returns the configured provider display name.
func (s *StripeSubscriptionService) ProviderName() string { return s.cfg.ProviderName }

// logFor returns the service logger tagged with the request id carried by ctx.
func (s *StripeSubscriptionService) logFor(ctx context.Context) *zerolog.Logger {
	l := s.log
	if id := logging.RequestID(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	return &l
}

func (s *StripeSubscriptionService) mapSubscription(sub stripe.Subscription) SubscriptionDetails {
	return MapSubscriptionWithCurrency(sub, s.cfg.PaymentOptions.DefaultCurrency)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and reports the first failure as a
// ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		fe := ves[0]
		return &ValidationError{Field: fe.Field(), Reason: describeTag(fe)}
	}
	return &ValidationError{Reason: err.Error()}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

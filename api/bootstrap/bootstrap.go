package bootstrap

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tbeaudouin05/stripe-subscriptions/api/config"
	"github.com/tbeaudouin05/stripe-subscriptions/api/logging"
	stripeapp "github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/app"
	gw "github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/gateway"
	stripegw "github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/gateway/stripe"
)

var (
	subscriptionService stripeapp.SubscriptionService
	appConfig           config.Config
	initOnce            sync.Once
	initErr             error
)

// Init loads config, sets up logging and wires the subscription service.
func Init() error {
	// If a service has already been injected (e.g., tests), do not override or init heavy deps.
	if subscriptionService != nil {
		return nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	svc, err := NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create subscription service: %w", err)
	}
	appConfig = cfg
	subscriptionService = svc
	return nil
}

// NewService builds a Stripe-backed subscription service with an instrumented
// gateway. It does not touch package state.
func NewService(cfg config.Config) (*stripeapp.StripeSubscriptionService, error) {
	logger := log.With().Str("component", "subscriptions").Logger()
	gateway := gw.Instrument(stripegw.New(cfg.SecretKey, logger))
	return stripeapp.NewService(cfg, gateway, stripeapp.WithLogger(logger))
}

func GetSubscriptionService() stripeapp.SubscriptionService { return subscriptionService }

// SetSubscriptionService allows tests to inject a stub implementation.
func SetSubscriptionService(s stripeapp.SubscriptionService) { subscriptionService = s }

// Config returns the configuration loaded by Init.
func Config() config.Config { return appConfig.Clone() }

// Ensure runs Init() once per process and returns any initialization error.
func Ensure() error {
	initOnce.Do(func() {
		initErr = Init()
	})
	return initErr
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the payment provider configuration. It is built once at
// startup and handed to components by value; nothing mutates it afterwards.
type Config struct {
	SecretKey    string
	ProviderName string

	PaymentOptions       PaymentOptions
	SubscriptionDefaults SubscriptionDefaults

	// Server settings
	HTTPPort  string
	LogLevel  string
	LogFormat string
}

// PaymentOptions are the provider defaults applied to payment flows.
type PaymentOptions struct {
	// PaymentMethodTypes is sent as payment_settings.payment_method_types on
	// subscription creation.
	PaymentMethodTypes []string
	// DefaultCurrency fills records whose subscription carries no price.
	DefaultCurrency string
	// PaymentBehavior is sent as payment_behavior on subscription creation.
	PaymentBehavior string
}

// SubscriptionDefaults are applied when a subscription request leaves a field unset.
type SubscriptionDefaults struct {
	// DefaultTrialDays is nil when no trial should be applied by default.
	DefaultTrialDays         *int64
	SaveDefaultPaymentMethod bool
	DefaultExpand            []string
}

// envSettings is the raw string view of the environment, filled by reflection
// from the table in LoadConfig.
type envSettings struct {
	SecretKey                string
	ProviderName             string
	PaymentMethodTypes       string
	DefaultCurrency          string
	PaymentBehavior          string
	DefaultTrialDays         string
	SaveDefaultPaymentMethod string
	DefaultExpand            string
	HTTPPort                 string
	LogLevel                 string
	LogFormat                string
}

// Default returns the configuration used when no environment overrides exist.
// SecretKey is left empty.
func Default() Config {
	return Config{
		ProviderName: DefaultProviderName,
		PaymentOptions: PaymentOptions{
			PaymentMethodTypes: []string{"card"},
			DefaultCurrency:    DefaultCurrency,
			PaymentBehavior:    DefaultPaymentBehavior,
		},
		SubscriptionDefaults: SubscriptionDefaults{
			SaveDefaultPaymentMethod: true,
			DefaultExpand:            []string{"latest_invoice.payment_intent"},
		},
		HTTPPort:  DefaultHTTPPort,
		LogLevel:  "info",
		LogFormat: "auto",
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (Config, error) {
	// Try to load .env file from current directory and parent directories
	currentDir, _ := os.Getwd()
	for currentDir != "/" && currentDir != "." {
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return Config{}, fmt.Errorf("failed to load .env file: %v", err)
			}
			break
		}
		currentDir = filepath.Dir(currentDir)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults for unset
// optional variables.
func FromEnv(getenv func(string) string) (Config, error) {
	raw := &envSettings{}
	vars := []struct {
		name     string
		envVar   string
		display  string
		required bool
	}{
		{"SecretKey", "STRIPE_SECRET_KEY", "Stripe Secret Key", true},
		{"ProviderName", "PAYMENT_PROVIDER_NAME", "Payment Provider Name", false},
		{"PaymentMethodTypes", "STRIPE_PAYMENT_METHOD_TYPES", "Payment Method Types", false},
		{"DefaultCurrency", "STRIPE_DEFAULT_CURRENCY", "Default Currency", false},
		{"PaymentBehavior", "STRIPE_PAYMENT_BEHAVIOR", "Payment Behavior", false},
		{"DefaultTrialDays", "STRIPE_DEFAULT_TRIAL_DAYS", "Default Trial Days", false},
		{"SaveDefaultPaymentMethod", "STRIPE_SAVE_DEFAULT_PAYMENT_METHOD", "Save Default Payment Method", false},
		{"DefaultExpand", "STRIPE_DEFAULT_EXPAND", "Default Expand", false},
		{"HTTPPort", "PORT", "HTTP Port", false},
		{"LogLevel", "LOG_LEVEL", "Log Level", false},
		{"LogFormat", "LOG_FORMAT", "Log Format", false},
	}

	for _, v := range vars {
		value := strings.TrimSpace(getenv(v.envVar))
		if v.required && value == "" {
			return Config{}, fmt.Errorf("missing required environment variable: %s", v.display)
		}
		reflect.ValueOf(raw).Elem().FieldByName(v.name).SetString(value)
	}

	cfg := Default()
	cfg.SecretKey = raw.SecretKey
	if raw.ProviderName != "" {
		cfg.ProviderName = raw.ProviderName
	}
	if raw.PaymentMethodTypes != "" {
		cfg.PaymentOptions.PaymentMethodTypes = splitList(raw.PaymentMethodTypes)
	}
	if raw.DefaultCurrency != "" {
		cfg.PaymentOptions.DefaultCurrency = strings.ToLower(raw.DefaultCurrency)
	}
	if raw.PaymentBehavior != "" {
		cfg.PaymentOptions.PaymentBehavior = raw.PaymentBehavior
	}
	if raw.DefaultExpand != "" {
		cfg.SubscriptionDefaults.DefaultExpand = splitList(raw.DefaultExpand)
	}
	if raw.HTTPPort != "" {
		cfg.HTTPPort = raw.HTTPPort
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(raw.LogLevel)
	}
	if raw.LogFormat != "" {
		cfg.LogFormat = strings.ToLower(raw.LogFormat)
	}

	var err error
	if cfg.SubscriptionDefaults.SaveDefaultPaymentMethod, err = parseBool(raw.SaveDefaultPaymentMethod, true); err != nil {
		return Config{}, fmt.Errorf("invalid STRIPE_SAVE_DEFAULT_PAYMENT_METHOD: %w", err)
	}
	if raw.DefaultTrialDays != "" {
		days, err := strconv.ParseInt(raw.DefaultTrialDays, 10, 64)
		if err != nil || days < 0 {
			return Config{}, fmt.Errorf("invalid STRIPE_DEFAULT_TRIAL_DAYS: %q", raw.DefaultTrialDays)
		}
		cfg.SubscriptionDefaults.DefaultTrialDays = &days
	}

	return cfg, nil
}

// Clone returns a deep copy so callers can keep the value without sharing
// slices or pointers with the original.
func (c Config) Clone() Config {
	out := c
	out.PaymentOptions.PaymentMethodTypes = append([]string(nil), c.PaymentOptions.PaymentMethodTypes...)
	out.SubscriptionDefaults.DefaultExpand = append([]string(nil), c.SubscriptionDefaults.DefaultExpand...)
	if c.SubscriptionDefaults.DefaultTrialDays != nil {
		days := *c.SubscriptionDefaults.DefaultTrialDays
		out.SubscriptionDefaults.DefaultTrialDays = &days
	}
	return out
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(s string, def bool) (bool, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseBool(s)
}

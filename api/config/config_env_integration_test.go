package config

import (
	"strings"
	"testing"
)

// TestLoadConfig_Environment_Integration checks the deployment environment
// (or a .env file up the tree) carries a usable Stripe key. Skipped in -short mode.
func TestLoadConfig_Environment_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping environment config test in -short mode")
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !strings.HasPrefix(cfg.SecretKey, "sk_") && !strings.HasPrefix(cfg.SecretKey, "rk_") {
		t.Fatalf("STRIPE_SECRET_KEY does not look like a Stripe secret or restricted key")
	}
	if cfg.ProviderName == "" {
		t.Fatalf("provider name resolved to empty")
	}
}

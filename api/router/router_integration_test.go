package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	bootstrap "github.com/tbeaudouin05/stripe-subscriptions/api/bootstrap"
	config "github.com/tbeaudouin05/stripe-subscriptions/api/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Skipf("no Stripe configuration available: %v", err)
	}
	svc, err := bootstrap.NewService(cfg)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	prev := bootstrap.GetSubscriptionService()
	bootstrap.SetSubscriptionService(svc)
	t.Cleanup(func() { bootstrap.SetSubscriptionService(prev) })

	ts := httptest.NewServer(NewRouter())
	t.Cleanup(ts.Close)
	return ts
}

func TestCreateSubscriptionHTTP_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in -short mode")
	}
	ts := newTestServer(t)

	// Missing priceId must be rejected before Stripe is called.
	b, _ := json.Marshal(map[string]any{"email": "integration@example.com", "fullName": "Integration Test"})
	resp, err := http.Post(ts.URL+"/api/subscriptions", "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", resp.StatusCode)
	}
}

func TestGetSubscriptionHTTP_NotFound_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in -short mode")
	}
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/subscriptions/sub_does_not_exist")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown subscription, got %d", resp.StatusCode)
	}
}

func TestValiditySubscriptionHTTP_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in -short mode")
	}
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/subscriptions/sub_does_not_exist/validity")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		IsValid bool `json:"isValid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK || body.IsValid {
		t.Fatalf("expected 200 with isValid=false, got %d %+v", resp.StatusCode, body)
	}
}

package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
)

// Remote HTTP integration tests against a deployed instance, selected with
// SUBSCRIPTIONS_BASE_URL.

func remoteBaseURL(t *testing.T) string {
	t.Helper()
	base := os.Getenv("SUBSCRIPTIONS_BASE_URL")
	if base == "" {
		t.Skip("SUBSCRIPTIONS_BASE_URL not set")
	}
	return base
}

func TestCancelSubscriptionHTTP_Remote_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in -short mode")
	}
	base := remoteBaseURL(t)

	b, _ := json.Marshal(map[string]any{"immediate": true})
	resp, err := http.Post(base+"/api/subscriptions/sub_does_not_exist/cancel", "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Fatalf("expected non-200 for unknown subscription, got %d", resp.StatusCode)
	}
}

func TestValiditySubscriptionHTTP_Remote_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in -short mode")
	}
	base := remoteBaseURL(t)

	resp, err := http.Get(base + "/api/subscriptions/sub_does_not_exist/validity")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatalf("expected %s header", RequestIDHeader)
	}
}

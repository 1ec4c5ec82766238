package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bootstrap "github.com/tbeaudouin05/stripe-subscriptions/api/bootstrap"
	"github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/app"
)

type validityStub struct {
	app.SubscriptionService
	valid bool
}

func (s validityStub) ValidateSubscription(context.Context, string) bool { return s.valid }

func newStubServer(t *testing.T, svc app.SubscriptionService) *httptest.Server {
	t.Helper()
	prev := bootstrap.GetSubscriptionService()
	bootstrap.SetSubscriptionService(svc)
	t.Cleanup(func() { bootstrap.SetSubscriptionService(prev) })

	ts := httptest.NewServer(NewRouter())
	t.Cleanup(ts.Close)
	return ts
}

func TestRouter_ValidityAndRequestID(t *testing.T) {
	ts := newStubServer(t, validityStub{valid: true})

	resp, err := http.Get(ts.URL + "/api/subscriptions/sub_1/validity")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["isValid"])
}

func TestRouter_EchoesRequestID(t *testing.T) {
	ts := newStubServer(t, validityStub{})

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL+"/api/subscriptions/sub_1/validity", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-abc", resp.Header.Get(RequestIDHeader))
}

func TestRouter_Metrics(t *testing.T) {
	ts := newStubServer(t, validityStub{})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "go_goroutines"))
}

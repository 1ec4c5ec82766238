package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	bootstrap "github.com/tbeaudouin05/stripe-subscriptions/api/bootstrap"
	"github.com/tbeaudouin05/stripe-subscriptions/api/logging"
	"github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/transport"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-Id"

// NewRouter returns the central HTTP router: subscription routes on a
// grpc-gateway mux plus the Prometheus endpoint.
func NewRouter() http.Handler {
	// Initialize app dependencies (non-fatal if it fails here; routes answer Unavailable).
	if err := bootstrap.Ensure(); err != nil {
		log.Error().Err(err).Msg("bootstrap ensure failed")
	}

	gwmux := transport.NewServeMux()
	if err := transport.Register(gwmux, bootstrap.GetSubscriptionService()); err != nil {
		log.Error().Err(err).Msg("failed to register subscription routes")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", gwmux)
	return withRequestID(mux)
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, id := logging.WithRequestID(r.Context(), r.Header.Get(RequestIDHeader))
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Package transport exposes the subscription service as JSON endpoints on a
// grpc-gateway ServeMux.
package transport

import (
	"errors"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/app"
)

// NewMarshaler returns the JSON marshaler shared by responses and error bodies.
func NewMarshaler() *runtime.JSONPb {
	return &runtime.JSONPb{
		MarshalOptions:   protojson.MarshalOptions{EmitUnpopulated: true},
		UnmarshalOptions: protojson.UnmarshalOptions{DiscardUnknown: true},
	}
}

// NewServeMux builds a gateway mux that renders every payload with NewMarshaler.
func NewServeMux(opts ...runtime.ServeMuxOption) *runtime.ServeMux {
	opts = append([]runtime.ServeMuxOption{
		runtime.WithMarshalerOption(runtime.MIMEWildcard, NewMarshaler()),
	}, opts...)
	return runtime.NewServeMux(opts...)
}

// Server serves the subscription routes. A nil service answers Unavailable.
type Server struct {
	svc       app.SubscriptionService
	mux       *runtime.ServeMux
	marshaler runtime.Marshaler
}

// New returns a Server bound to svc and mux.
func New(svc app.SubscriptionService, mux *runtime.ServeMux) *Server {
	return &Server{svc: svc, mux: mux, marshaler: NewMarshaler()}
}

type route struct {
	method  string
	pattern string
	handler runtime.HandlerFunc
}

// Register mounts all subscription routes on the mux.
func (s *Server) Register() error {
	routes := []route{
		{http.MethodPost, "/api/subscriptions", s.createSubscription},
		{http.MethodGet, "/api/subscriptions/{id}", s.getSubscription},
		{http.MethodPatch, "/api/subscriptions/{id}", s.updateSubscription},
		{http.MethodPost, "/api/subscriptions/{id}/cancel", s.cancelSubscription},
		{http.MethodGet, "/api/subscriptions/{id}/validity", s.validateSubscription},
		{http.MethodGet, "/api/customers/{id}/subscriptions", s.listCustomerSubscriptions},
	}
	for _, rt := range routes {
		if err := s.mux.HandlePath(rt.method, rt.pattern, s.guard(rt.handler)); err != nil {
			return err
		}
	}
	return nil
}

// Register is a convenience for New(svc, mux).Register().
func Register(mux *runtime.ServeMux, svc app.SubscriptionService) error {
	return New(svc, mux).Register()
}

func (s *Server) guard(h runtime.HandlerFunc) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		if s.svc == nil {
			s.writeStatus(w, r, status.New(codes.Unavailable, "subscription service not initialized"))
			return
		}
		h(w, r, params)
	}
}

type cancelRequest struct {
	Immediate bool `json:"immediate"`
}

type validityResponse struct {
	SubscriptionID string `json:"subscriptionId"`
	IsValid        bool   `json:"isValid"`
}

type listResponse struct {
	CustomerID    string                    `json:"customerId"`
	Subscriptions []app.SubscriptionDetails `json:"subscriptions"`
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req app.CreateSubscriptionRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	res, err := s.svc.CreateSubscription(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusCreated, res)
}

func (s *Server) getSubscription(w http.ResponseWriter, r *http.Request, params map[string]string) {
	res, err := s.svc.GetSubscription(r.Context(), params["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, res)
}

func (s *Server) updateSubscription(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req app.UpdateSubscriptionRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	res, err := s.svc.UpdateSubscription(r.Context(), params["id"], req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, res)
}

func (s *Server) cancelSubscription(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req cancelRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	res, err := s.svc.CancelSubscription(r.Context(), params["id"], req.Immediate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, res)
}

func (s *Server) validateSubscription(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id := params["id"]
	s.write(w, r, http.StatusOK, validityResponse{
		SubscriptionID: id,
		IsValid:        s.svc.ValidateSubscription(r.Context(), id),
	})
}

func (s *Server) listCustomerSubscriptions(w http.ResponseWriter, r *http.Request, params map[string]string) {
	subs, err := s.svc.ListCustomerSubscriptions(r.Context(), params["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if subs == nil {
		subs = []app.SubscriptionDetails{}
	}
	s.write(w, r, http.StatusOK, listResponse{CustomerID: params["id"], Subscriptions: subs})
}

// decode reads the JSON body into v. An empty body is accepted only when
// allowEmpty is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	err := s.marshaler.NewDecoder(r.Body).Decode(v)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	s.writeStatus(w, r, status.New(codes.InvalidArgument, "invalid request body: "+err.Error()))
	return false
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, code int, v any) {
	buf, err := s.marshaler.Marshal(v)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal response")
		s.writeStatus(w, r, status.New(codes.Internal, "failed to marshal response"))
		return
	}
	w.Header().Set("Content-Type", s.marshaler.ContentType(v))
	w.WriteHeader(code)
	if _, err := w.Write(buf); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	st := statusFromError(err)
	ev := zerolog.Ctx(r.Context()).Warn()
	if runtime.HTTPStatusFromCode(st.Code()) >= http.StatusInternalServerError {
		ev = zerolog.Ctx(r.Context()).Error()
	}
	ev.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Str("code", st.Code().String()).Msg("request failed")
	s.writeStatus(w, r, st)
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, st *status.Status) {
	runtime.HTTPError(r.Context(), s.mux, s.marshaler, w, r, st.Err())
}

package transport

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"

	"github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/app"
)

// statusFromError maps the app error taxonomy onto gRPC codes. The HTTP status
// is derived from the code by runtime.HTTPStatusFromCode.
func statusFromError(err error) *status.Status {
	var (
		ve *app.ValidationError
		nf *app.NotFoundError
		pe *app.PaymentError
		ce *app.ConfigurationError
	)
	switch {
	case errors.As(err, &ve):
		return withDetails(status.New(codes.InvalidArgument, ve.Error()), &errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{{Field: ve.Field, Description: ve.Reason}},
		})
	case errors.As(err, &nf):
		return withDetails(status.New(codes.NotFound, nf.Error()), &errdetails.ResourceInfo{
			ResourceType: nf.Resource,
			ResourceName: nf.ID,
		})
	case errors.As(err, &pe):
		md := map[string]string{}
		if pe.RequestID != "" {
			md["request_id"] = pe.RequestID
		}
		return withDetails(status.New(codes.FailedPrecondition, pe.Error()), &errdetails.ErrorInfo{
			Reason:   strings.ToUpper(pe.Code),
			Domain:   strings.ToLower(pe.Provider),
			Metadata: md,
		})
	case errors.As(err, &ce):
		return status.New(codes.Internal, ce.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err)
	default:
		return status.New(codes.Unknown, err.Error())
	}
}

func withDetails(st *status.Status, details ...protoadapt.MessageV1) *status.Status {
	if ds, err := st.WithDetails(details...); err == nil {
		return ds
	}
	return st
}

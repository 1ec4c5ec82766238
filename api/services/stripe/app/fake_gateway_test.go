package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/tbeaudouin05/stripe-subscriptions/api/config"
)

// fakeGateway is an in-memory gateway that records every call. Error fields
// force the matching operation to fail.
type fakeGateway struct {
	subs  map[string]stripe.Subscription
	custs map[string]stripe.Customer
	pms   map[string]stripe.PaymentMethod

	getCustomerErr  error
	listCustomerErr error
	createCustErr   error
	attachErr       error
	getPMErr        error
	createSubErr    error
	getSubErr       error
	updateSubErr    error
	cancelSubErr    error
	listSubErr      error

	calls          []string
	createdCust    *stripe.CustomerParams
	listCustParams *stripe.CustomerListParams
	attachedPM     string
	attachParams   *stripe.PaymentMethodAttachParams
	createParams   *stripe.SubscriptionParams
	getParams      *stripe.SubscriptionParams
	updateParams   *stripe.SubscriptionParams
	cancelParams   *stripe.SubscriptionCancelParams
	listSubParams  *stripe.SubscriptionListParams
}

func (f *fakeGateway) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeGateway) GetCustomer(_ context.Context, id string, _ *stripe.CustomerParams) (stripe.Customer, error) {
	f.calls = append(f.calls, "GetCustomer")
	if f.getCustomerErr != nil {
		return stripe.Customer{}, f.getCustomerErr
	}
	c, ok := f.custs[id]
	if !ok {
		return stripe.Customer{}, notFound("customer", id)
	}
	return c, nil
}

func (f *fakeGateway) ListCustomers(_ context.Context, params *stripe.CustomerListParams) ([]stripe.Customer, error) {
	f.calls = append(f.calls, "ListCustomers")
	f.listCustParams = params
	if f.listCustomerErr != nil {
		return nil, f.listCustomerErr
	}
	var out []stripe.Customer
	for _, c := range f.custs {
		if params.Email != nil && c.Email == *params.Email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeGateway) CreateCustomer(_ context.Context, params *stripe.CustomerParams) (stripe.Customer, error) {
	f.calls = append(f.calls, "CreateCustomer")
	f.createdCust = params
	if f.createCustErr != nil {
		return stripe.Customer{}, f.createCustErr
	}
	c := stripe.Customer{ID: "cus_new", Email: stripe.StringValue(params.Email), Name: stripe.StringValue(params.Name), Metadata: params.Metadata}
	if f.custs == nil {
		f.custs = map[string]stripe.Customer{}
	}
	f.custs[c.ID] = c
	return c, nil
}

func (f *fakeGateway) AttachPaymentMethod(_ context.Context, id string, params *stripe.PaymentMethodAttachParams) (stripe.PaymentMethod, error) {
	f.calls = append(f.calls, "AttachPaymentMethod")
	f.attachedPM = id
	f.attachParams = params
	if f.attachErr != nil {
		return stripe.PaymentMethod{}, f.attachErr
	}
	return stripe.PaymentMethod{ID: id, Customer: &stripe.Customer{ID: stripe.StringValue(params.Customer)}}, nil
}

func (f *fakeGateway) GetPaymentMethod(_ context.Context, id string, _ *stripe.PaymentMethodParams) (stripe.PaymentMethod, error) {
	f.calls = append(f.calls, "GetPaymentMethod")
	if f.getPMErr != nil {
		return stripe.PaymentMethod{}, f.getPMErr
	}
	pm, ok := f.pms[id]
	if !ok {
		return stripe.PaymentMethod{}, notFound("payment_method", id)
	}
	return pm, nil
}

func (f *fakeGateway) CreateSubscription(_ context.Context, params *stripe.SubscriptionParams) (stripe.Subscription, error) {
	f.calls = append(f.calls, "CreateSubscription")
	f.createParams = params
	if f.createSubErr != nil {
		return stripe.Subscription{}, f.createSubErr
	}
	item := params.Items[0]
	return stripe.Subscription{
		ID:       "sub_new",
		Status:   stripe.SubscriptionStatusIncomplete,
		Customer: &stripe.Customer{ID: stripe.StringValue(params.Customer)},
		Items: &stripe.SubscriptionItemList{Data: []*stripe.SubscriptionItem{{
			ID:       "si_new",
			Quantity: stripe.Int64Value(item.Quantity),
			Price:    &stripe.Price{ID: stripe.StringValue(item.Price), UnitAmount: 1999, Currency: stripe.CurrencyUSD},
		}}},
		Metadata: params.Metadata,
	}, nil
}

func (f *fakeGateway) GetSubscription(_ context.Context, id string, params *stripe.SubscriptionParams) (stripe.Subscription, error) {
	f.calls = append(f.calls, "GetSubscription")
	f.getParams = params
	if f.getSubErr != nil {
		return stripe.Subscription{}, f.getSubErr
	}
	s, ok := f.subs[id]
	if !ok {
		return stripe.Subscription{}, notFound("subscription", id)
	}
	return s, nil
}

func (f *fakeGateway) UpdateSubscription(_ context.Context, id string, params *stripe.SubscriptionParams) (stripe.Subscription, error) {
	f.calls = append(f.calls, "UpdateSubscription")
	f.updateParams = params
	if f.updateSubErr != nil {
		return stripe.Subscription{}, f.updateSubErr
	}
	s, ok := f.subs[id]
	if !ok {
		return stripe.Subscription{}, notFound("subscription", id)
	}
	if params.CancelAtPeriodEnd != nil {
		s.CancelAtPeriodEnd = *params.CancelAtPeriodEnd
	}
	return s, nil
}

func (f *fakeGateway) CancelSubscription(_ context.Context, id string, params *stripe.SubscriptionCancelParams) (stripe.Subscription, error) {
	f.calls = append(f.calls, "CancelSubscription")
	f.cancelParams = params
	if f.cancelSubErr != nil {
		return stripe.Subscription{}, f.cancelSubErr
	}
	s, ok := f.subs[id]
	if !ok {
		return stripe.Subscription{}, notFound("subscription", id)
	}
	s.Status = stripe.SubscriptionStatusCanceled
	s.CanceledAt = 1700000000
	return s, nil
}

func (f *fakeGateway) ListSubscriptions(_ context.Context, params *stripe.SubscriptionListParams) ([]stripe.Subscription, error) {
	f.calls = append(f.calls, "ListSubscriptions")
	f.listSubParams = params
	if f.listSubErr != nil {
		return nil, f.listSubErr
	}
	var out []stripe.Subscription
	for _, s := range f.subs {
		if s.Customer != nil && params.Customer != nil && s.Customer.ID == *params.Customer {
			out = append(out, s)
		}
	}
	return out, nil
}

func notFound(resource, id string) *stripe.Error {
	return &stripe.Error{
		HTTPStatusCode: http.StatusNotFound,
		Code:           stripe.ErrorCodeResourceMissing,
		Msg:            "No such " + resource + ": '" + id + "'",
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SecretKey = "sk_test_123"
	return cfg
}

func newTestService(t *testing.T, g *fakeGateway) *StripeSubscriptionService {
	t.Helper()
	svc, err := NewService(testConfig(), g, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func subscriptionFixture(id, customerID string, status stripe.SubscriptionStatus) stripe.Subscription {
	return stripe.Subscription{
		ID:       id,
		Status:   status,
		Customer: &stripe.Customer{ID: customerID},
		Created:  1690000000,
		Items: &stripe.SubscriptionItemList{Data: []*stripe.SubscriptionItem{{
			ID:                 "si_1",
			Quantity:           2,
			CurrentPeriodStart: 1690000000,
			CurrentPeriodEnd:   1692678400,
			Price: &stripe.Price{
				ID:         "price_123",
				UnitAmount: 2500,
				Currency:   stripe.CurrencyEUR,
				Product:    &stripe.Product{ID: "prod_1"},
				Recurring:  &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalMonth},
			},
		}}},
	}
}

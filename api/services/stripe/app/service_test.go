package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/tbeaudouin05/stripe-subscriptions/api/config"
	"github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/app"
	"github.com/tbeaudouin05/stripe-subscriptions/api/services/stripe/gateway/mocks"
)

func TestNewService_RequiresConfiguration(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockStripeGateway(ctrl)

	cfg := config.Default()
	_, err := app.NewService(cfg, g)
	var ce *app.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "SecretKey", ce.Setting)

	cfg.SecretKey = "sk_test_123"
	cfg.ProviderName = " "
	_, err = app.NewService(cfg, g)
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "ProviderName", ce.Setting)

	cfg.ProviderName = "Stripe"
	_, err = app.NewService(cfg, nil)
	assert.ErrorIs(t, err, app.ErrConfiguration)

	svc, err := app.NewService(cfg, g)
	require.NoError(t, err)
	assert.Equal(t, "Stripe", svc.ProviderName())
}

func TestNewService_CopiesConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockStripeGateway(ctrl)

	cfg := config.Default()
	cfg.SecretKey = "sk_test_123"
	svc, err := app.NewService(cfg, g)
	require.NoError(t, err)

	cfg.SubscriptionDefaults.DefaultExpand[0] = "customer"

	g.EXPECT().
		GetSubscription(gomock.Any(), "sub_1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, p *stripe.SubscriptionParams) (stripe.Subscription, error) {
			require.Len(t, p.Expand, 1)
			assert.Equal(t, "latest_invoice.payment_intent", *p.Expand[0])
			return stripe.Subscription{ID: "sub_1", Status: stripe.SubscriptionStatusActive}, nil
		})

	assert.True(t, svc.ValidateSubscription(context.Background(), "sub_1"))
}

func TestCreateSubscription_ScenarioWithMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockStripeGateway(ctrl)
	cfg := config.Default()
	cfg.SecretKey = "sk_test_123"
	svc, err := app.NewService(cfg, g)
	require.NoError(t, err)

	gomock.InOrder(
		g.EXPECT().ListCustomers(gomock.Any(), gomock.Any()).Return(nil, nil),
		g.EXPECT().CreateCustomer(gomock.Any(), gomock.Any()).Return(stripe.Customer{ID: "cus_X", Email: "a@b.com"}, nil),
		g.EXPECT().AttachPaymentMethod(gomock.Any(), "pm_1", gomock.Any()).Return(stripe.PaymentMethod{ID: "pm_1"}, nil),
		g.EXPECT().CreateSubscription(gomock.Any(), gomock.Any()).Return(stripe.Subscription{
			ID:       "sub_X",
			Status:   stripe.SubscriptionStatusIncomplete,
			Customer: &stripe.Customer{ID: "cus_X"},
			Items: &stripe.SubscriptionItemList{Data: []*stripe.SubscriptionItem{{
				Quantity: 1,
				Price:    &stripe.Price{ID: "price_123", UnitAmount: 999, Currency: stripe.CurrencyUSD},
			}}},
		}, nil),
	)

	d, err := svc.CreateSubscription(context.Background(), app.CreateSubscriptionRequest{
		Email: "a@b.com", PriceID: "price_123", PaymentMethodID: "pm_1", FullName: "A B",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_X", d.ID)
	assert.Equal(t, "cus_X", d.CustomerID)
	assert.Equal(t, "incomplete", d.Status)
	assert.Equal(t, "9.99", d.Amount.StringFixed(2))
}

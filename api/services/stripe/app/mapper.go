package app

import (
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/tbeaudouin05/stripe-subscriptions/api/config"
)

// The mapping functions below are total: missing upstream fields map to
// empty strings, zero amounts, the fallback currency and nil optional times.

// MapSubscription translates a gateway subscription into SubscriptionDetails,
// falling back to config.DefaultCurrency when no price is present.
func MapSubscription(sub stripe.Subscription) SubscriptionDetails {
	return MapSubscriptionWithCurrency(sub, config.DefaultCurrency)
}

// MapSubscriptionWithCurrency is MapSubscription with an explicit fallback
// currency. Price and billing period are read from the first item.
func MapSubscriptionWithCurrency(sub stripe.Subscription, fallbackCurrency string) SubscriptionDetails {
	if fallbackCurrency == "" {
		fallbackCurrency = config.DefaultCurrency
	}
	d := SubscriptionDetails{
		ID:                sub.ID,
		Status:            string(sub.Status),
		Amount:            MinorToMajor(0),
		Currency:          fallbackCurrency,
		CreatedAt:         unixTime(sub.Created),
		TrialStart:        optionalTime(sub.TrialStart),
		TrialEnd:          optionalTime(sub.TrialEnd),
		CanceledAt:        optionalTime(sub.CanceledAt),
		EndsAt:            optionalTime(sub.CancelAt),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		Metadata:          sub.Metadata,
	}
	if sub.Customer != nil {
		d.CustomerID = sub.Customer.ID
	}

	item := firstItem(sub)
	if item == nil {
		return d
	}
	d.Quantity = item.Quantity
	d.CurrentPeriodStart = unixTime(item.CurrentPeriodStart)
	d.CurrentPeriodEnd = unixTime(item.CurrentPeriodEnd)
	if p := item.Price; p != nil {
		d.PriceID = p.ID
		d.Amount = MinorToMajor(p.UnitAmount)
		if p.Currency != "" {
			d.Currency = string(p.Currency)
		}
		if p.Product != nil {
			d.ProductID = p.Product.ID
		}
		if p.Recurring != nil {
			d.Interval = string(p.Recurring.Interval)
		}
	}
	return d
}

// MapCustomer translates a gateway customer into a CustomerResult.
func MapCustomer(c stripe.Customer) CustomerResult {
	md := c.Metadata
	if md == nil {
		md = map[string]string{}
	}
	return CustomerResult{
		ID:          c.ID,
		Email:       c.Email,
		Name:        c.Name,
		Phone:       c.Phone,
		Description: c.Description,
		Currency:    string(c.Currency),
		Balance:     c.Balance,
		Delinquent:  c.Delinquent,
		LiveMode:    c.Livemode,
		CreatedAt:   unixTime(c.Created),
		Metadata:    md,
	}
}

// MapUpdateResult keeps only the fields an update reports back.
func MapUpdateResult(sub stripe.Subscription) UpdateSubscriptionResult {
	return UpdateSubscriptionResult{SubscriptionID: sub.ID, Status: string(sub.Status)}
}

// MapCancelResult translates the subscription returned by either cancel mode.
func MapCancelResult(sub stripe.Subscription) CancelSubscriptionResult {
	res := CancelSubscriptionResult{
		SubscriptionID:    sub.ID,
		Status:            string(sub.Status),
		CanceledAt:        optionalTime(sub.CanceledAt),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if item := firstItem(sub); item != nil {
		res.PeriodEnd = optionalTime(item.CurrentPeriodEnd)
	}
	return res
}

func firstItem(sub stripe.Subscription) *stripe.SubscriptionItem {
	if sub.Items == nil {
		return nil
	}
	for _, item := range sub.Items.Data {
		if item != nil {
			return item
		}
	}
	return nil
}

func itemCount(sub stripe.Subscription) int {
	if sub.Items == nil {
		return 0
	}
	n := 0
	for _, item := range sub.Items.Data {
		if item != nil {
			n++
		}
	}
	return n
}

package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription statuses as reported by the gateway. The app layer passes them
// through verbatim; only StatusActive and StatusTrialing count as valid.
const (
	StatusIncomplete        = "incomplete"
	StatusIncompleteExpired = "incomplete_expired"
	StatusTrialing          = "trialing"
	StatusActive            = "active"
	StatusPastDue           = "past_due"
	StatusCanceled          = "canceled"
	StatusUnpaid            = "unpaid"
	StatusPaused            = "paused"
)

// CreateSubscriptionRequest is the input to CreateSubscription.
type CreateSubscriptionRequest struct {
	Email           string            `json:"email" validate:"required,email"`
	FullName        string            `json:"fullName" validate:"required"`
	PaymentMethodID string            `json:"paymentMethodId"`
	PriceID         string            `json:"priceId" validate:"required"`
	CustomerID      string            `json:"customerId,omitempty"`
	TrialPeriodDays *int64            `json:"trialPeriodDays,omitempty" validate:"omitempty,gte=0"`
	Quantity        *int64            `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// UpdateSubscriptionRequest changes the billable item or billing options of
// an existing subscription. Unset fields keep their current value.
type UpdateSubscriptionRequest struct {
	NewPriceID        string            `json:"newPriceId,omitempty"`
	Quantity          *int64            `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	CancelAtPeriodEnd *bool             `json:"cancelAtPeriodEnd,omitempty"`
	// TrialEnd is a Unix timestamp in seconds.
	TrialEnd *int64            `json:"trialEnd,omitempty" validate:"omitempty,gt=0"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SubscriptionDetails is the provider-agnostic view of a subscription. It is
// always derived from a fresh gateway response.
type SubscriptionDetails struct {
	ID                 string            `json:"id"`
	CustomerID         string            `json:"customerId"`
	Status             string            `json:"status"`
	PriceID            string            `json:"priceId"`
	ProductID          string            `json:"productId"`
	Amount             decimal.Decimal   `json:"amount"`
	Currency           string            `json:"currency"`
	Interval           string            `json:"interval"`
	Quantity           int64             `json:"quantity"`
	CreatedAt          time.Time         `json:"createdAt"`
	TrialStart         *time.Time        `json:"trialStart,omitempty"`
	TrialEnd           *time.Time        `json:"trialEnd,omitempty"`
	CanceledAt         *time.Time        `json:"canceledAt,omitempty"`
	EndsAt             *time.Time        `json:"endsAt,omitempty"`
	CancelAtPeriodEnd  bool              `json:"cancelAtPeriodEnd"`
	CurrentPeriodStart time.Time         `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time         `json:"currentPeriodEnd"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// IsValid reports whether the subscription currently grants access.
func (d SubscriptionDetails) IsValid() bool { return IsValidStatus(d.Status) }

// UpdateSubscriptionResult carries the minimal fields returned by an update.
type UpdateSubscriptionResult struct {
	SubscriptionID string `json:"subscriptionId"`
	Status         string `json:"status"`
}

// CancelSubscriptionResult is returned by both cancellation modes.
type CancelSubscriptionResult struct {
	SubscriptionID    string     `json:"subscriptionId"`
	Status            string     `json:"status"`
	CanceledAt        *time.Time `json:"canceledAt,omitempty"`
	PeriodEnd         *time.Time `json:"periodEnd,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
}

// CustomerResult is the provider-agnostic customer identity.
type CustomerResult struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Phone       string            `json:"phone"`
	Description string            `json:"description"`
	Currency    string            `json:"currency"`
	// Balance is in minor units, as reported by the gateway.
	Balance    int64             `json:"balance"`
	Delinquent bool              `json:"delinquent"`
	LiveMode   bool              `json:"liveMode"`
	CreatedAt  time.Time         `json:"createdAt"`
	Metadata   map[string]string `json:"metadata"`
}

package app

import (
	"encoding/json"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
)

// SubscriptionFromEvent decodes the subscription carried by a
// customer.subscription.* event. The event signature must already have been
// verified by the caller.
func SubscriptionFromEvent(event stripe.Event) (SubscriptionDetails, error) {
	if err := checkEvent(event, "customer.subscription."); err != nil {
		return SubscriptionDetails{}, err
	}
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return SubscriptionDetails{}, &ValidationError{Field: "data", Reason: fmt.Sprintf("is not a subscription: %v", err)}
	}
	if sub.ID == "" {
		return SubscriptionDetails{}, &ValidationError{Field: "data.id", Reason: "is required"}
	}
	return MapSubscription(sub), nil
}

// CustomerFromEvent decodes the customer carried by a customer.* event. Events
// whose payload is not a customer object, such as customer.subscription.* or
// customer.tax_id.*, are rejected.
func CustomerFromEvent(event stripe.Event) (CustomerResult, error) {
	if err := checkEvent(event, "customer."); err != nil {
		return CustomerResult{}, err
	}
	var head struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(event.Data.Raw, &head); err != nil {
		return CustomerResult{}, &ValidationError{Field: "data", Reason: fmt.Sprintf("is not a customer: %v", err)}
	}
	if head.Object != "customer" {
		return CustomerResult{}, &ValidationError{Field: "data.object", Reason: fmt.Sprintf("%q is not a customer", head.Object)}
	}
	var cust stripe.Customer
	if err := json.Unmarshal(event.Data.Raw, &cust); err != nil {
		return CustomerResult{}, &ValidationError{Field: "data", Reason: fmt.Sprintf("is not a customer: %v", err)}
	}
	if cust.ID == "" {
		return CustomerResult{}, &ValidationError{Field: "data.id", Reason: "is required"}
	}
	return MapCustomer(cust), nil
}

func checkEvent(event stripe.Event, prefix string) error {
	if !strings.HasPrefix(string(event.Type), prefix) {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("%q is not a %s* event", event.Type, prefix)}
	}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return &ValidationError{Field: "data", Reason: "is required"}
	}
	return nil
}

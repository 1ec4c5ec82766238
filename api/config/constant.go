package config

const (
	// DefaultProviderName is the display name reported by the payment provider.
	DefaultProviderName = "Stripe"

	// DefaultCurrency is used when neither the request nor the price carries one.
	DefaultCurrency = "usd"

	// DefaultPaymentBehavior leaves the first invoice open until the payment
	// method is confirmed client side.
	DefaultPaymentBehavior = "default_incomplete"

	DefaultHTTPPort = "8080"
)

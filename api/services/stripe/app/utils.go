package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyMultiplier converts gateway minor units to major units. It does not
// special-case zero-decimal currencies.
const CurrencyMultiplier = 100

// IsValidStatus returns true only for statuses that grant access.
func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusTrialing
}

// MinorToMajor converts a minor-unit amount (e.g. cents) to major units.
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(CurrencyMultiplier))
}

// unixTime converts a gateway timestamp; 0 maps to the zero time.
func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// optionalTime converts a gateway timestamp; 0 maps to nil.
func optionalTime(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Timestamps holds standard audit times for domain entities. Always UTC.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MoneyPlaces is the number of decimal places every monetary amount is held at.
const MoneyPlaces int32 = 2

// RoundMoney rounds an amount half away from zero to MoneyPlaces.
// Example: 12.345 -> 12.35, 9.994 -> 9.99
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// Storage bounds. Quantities and stock are INTEGER columns, unit prices
// NUMERIC(12,2) and every other amount NUMERIC(14,2).
const MaxQuantity = math.MaxInt32

var (
	MaxPrice  = decimal.RequireFromString("9999999999.99")
	MaxAmount = decimal.RequireFromString("999999999999.99")
)

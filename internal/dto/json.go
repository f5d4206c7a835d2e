package dto

import "github.com/shopspring/decimal"

func init() {
	// The mobile client reads money as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

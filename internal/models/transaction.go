package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a row of the transactions table (one completed sale).
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	TransactionNumber string          `db:"transaction_number"`
	TransactionSeq    int64           `db:"transaction_seq"`
	Subtotal          decimal.Decimal `db:"subtotal"`
	Tax               decimal.Decimal `db:"tax"`
	Discount          decimal.Decimal `db:"discount"`
	Total             decimal.Decimal `db:"total"`
	PaymentMethod     string          `db:"payment_method"`
	CustomerName      *string         `db:"customer_name"` // Nullable
	Notes             *string         `db:"notes"`         // Nullable
	Status            string          `db:"status"`
	CreatedAt         time.Time       `db:"created_at"`
}

// TransactionItem represents a row of the transaction_items table.
type TransactionItem struct {
	TransactionID string          `db:"transaction_id"`
	LineNo        int             `db:"line_no"`
	ProductID     string          `db:"product_id"`
	ProductName   string          `db:"product_name"`
	Price         decimal.Decimal `db:"price"`
	Quantity      int             `db:"quantity"`
	Total         decimal.Decimal `db:"total"`
}

package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a row of the products table.
type Product struct {
	ProductID   string          `db:"product_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	Category    string          `db:"category"`
	Image       *string         `db:"image"` // Nullable
	IsActive    bool            `db:"is_active"`
	Timestamps
}

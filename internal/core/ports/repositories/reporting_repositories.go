package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines read-only aggregate queries over the live store
type ReportingRepository interface {
	// CountActiveProducts counts products with is_active = true.
	CountActiveProducts(ctx context.Context) (int64, error)

	// CountTransactions counts all sales ever recorded.
	CountTransactions(ctx context.Context) (int64, error)

	// SalesBetween returns the number of sales and their summed total in [from, to).
	SalesBetween(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error)

	// CountLowStockProducts counts active products with stock below threshold.
	CountLowStockProducts(ctx context.Context, threshold int) (int64, error)

	// ListActiveCategories returns the distinct categories of active products, sorted.
	ListActiveCategories(ctx context.Context) ([]string, error)

	// ListSaleExportRows returns one row per sold item for sales in [from, to), oldest first.
	// A nil bound is open.
	ListSaleExportRows(ctx context.Context, from, to *time.Time) ([]domain.SaleExportRow, error)
}

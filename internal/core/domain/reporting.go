package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the fixed cutoff below which an active product needs restocking.
const LowStockThreshold = 10

// DashboardStats holds the on-demand counters shown on the dashboard.
type DashboardStats struct {
	TotalProducts     int64           `json:"total_products"`
	TotalTransactions int64           `json:"total_transactions"`
	TodayRevenue      decimal.Decimal `json:"today_revenue"`
	TodayTransactions int64           `json:"today_transactions"`
	LowStockCount     int64           `json:"low_stock_count"`
}

// DayWindow returns [start, end) of the UTC calendar day containing now.
func DayWindow(now time.Time) (time.Time, time.Time) {
	u := now.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// SaleExportRow is one line of the transaction CSV export.
type SaleExportRow struct {
	TransactionNumber string
	CreatedAt         time.Time
	PaymentMethod     string
	CustomerName      string
	ProductID         string
	ProductName       string
	Price             decimal.Decimal
	Quantity          int
	LineTotal         decimal.Decimal
	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	Discount          decimal.Decimal
	Total             decimal.Decimal
}

package services

import (
	"context"
	"time"

	"github.com/SscSPs/pos_app/internal/core/domain"
)

// ReportingService defines read-only summaries derived from the live store
type ReportingService interface {
	// DashboardStats computes the dashboard counters for the current UTC day.
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)

	// ListCategories returns the distinct categories of active products.
	ListCategories(ctx context.Context) ([]string, error)

	// ExportTransactions returns one row per sold item in [from, to). Nil bounds are open.
	ExportTransactions(ctx context.Context, from, to *time.Time) ([]domain.SaleExportRow, error)
}

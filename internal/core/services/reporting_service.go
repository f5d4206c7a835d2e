package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/SscSPs/pos_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingClock overrides the clock that decides what "today" is
func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// NewReportingService creates a new reporting service
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{reportingRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// DashboardStats runs the independent counters concurrently. Each counter is a
// single statement, so the result is per-field consistent, not a snapshot.
func (s *reportingService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	start, end := domain.DayWindow(s.Now())
	stats := &domain.DashboardStats{TodayRevenue: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.reportingRepo.CountActiveProducts(gctx)
		stats.TotalProducts = n
		return err
	})
	g.Go(func() error {
		n, err := s.reportingRepo.CountTransactions(gctx)
		stats.TotalTransactions = n
		return err
	})
	g.Go(func() error {
		n, revenue, err := s.reportingRepo.SalesBetween(gctx, start, end)
		stats.TodayTransactions = n
		stats.TodayRevenue = domain.RoundMoney(revenue)
		return err
	})
	g.Go(func() error {
		n, err := s.reportingRepo.CountLowStockProducts(gctx, domain.LowStockThreshold)
		stats.LowStockCount = n
		return err
	})

	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to compute dashboard stats")
		return nil, err
	}

	s.LogDebug(ctx, "Dashboard stats computed",
		slog.Int64("total_products", stats.TotalProducts),
		slog.Int64("today_transactions", stats.TodayTransactions))
	return stats, nil
}

func (s *reportingService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.reportingRepo.ListActiveCategories(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *reportingService) ExportTransactions(ctx context.Context, from, to *time.Time) ([]domain.SaleExportRow, error) {
	if from != nil && to != nil && !from.Before(*to) {
		return nil, apperrors.Validationf("from must be before to")
	}

	rows, err := s.reportingRepo.ListSaleExportRows(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to export transactions")
		return nil, err
	}
	s.LogInfo(ctx, "Transactions exported", slog.Int("rows", len(rows)))
	return rows, nil
}

package dto

import (
	"github.com/SscSPs/pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardStatsResponse represents the dashboard counters
type DashboardStatsResponse struct {
	TotalProducts     int64           `json:"total_products"`
	TotalTransactions int64           `json:"total_transactions"`
	TodayRevenue      decimal.Decimal `json:"today_revenue"`
	TodayTransactions int64           `json:"today_transactions"`
	LowStockCount     int64           `json:"low_stock_count"`
}

// ToDashboardStatsResponse converts domain stats to the response DTO
func ToDashboardStatsResponse(s *domain.DashboardStats) DashboardStatsResponse {
	return DashboardStatsResponse{
		TotalProducts:     s.TotalProducts,
		TotalTransactions: s.TotalTransactions,
		TodayRevenue:      s.TodayRevenue,
		TodayTransactions: s.TodayTransactions,
		LowStockCount:     s.LowStockCount,
	}
}

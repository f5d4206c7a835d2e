package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/SscSPs/pos_app/internal/core/domain"
	portssvc "github.com/SscSPs/pos_app/internal/core/ports/services"
	"github.com/SscSPs/pos_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingService
	now      time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.now = time.Date(2024, 5, 1, 18, 45, 0, 0, time.UTC)
	suite.mockRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockRepo, services.WithReportingClock(func() time.Time { return suite.now }))
}

func (suite *ReportingServiceTestSuite) TestDashboardStats() {
	dayStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	suite.mockRepo.On("CountActiveProducts", mock.Anything).Return(int64(6), nil).Once()
	suite.mockRepo.On("CountTransactions", mock.Anything).Return(int64(120), nil).Once()
	suite.mockRepo.On("SalesBetween", mock.Anything, dayStart, dayEnd).Return(int64(4), decimal.RequireFromString("180.456"), nil).Once()
	suite.mockRepo.On("CountLowStockProducts", mock.Anything, domain.LowStockThreshold).Return(int64(2), nil).Once()

	stats, err := suite.service.DashboardStats(context.Background())

	suite.Require().NoError(err)
	suite.Equal(int64(6), stats.TotalProducts)
	suite.Equal(int64(120), stats.TotalTransactions)
	suite.Equal(int64(4), stats.TodayTransactions)
	suite.Equal(int64(2), stats.LowStockCount)
	suite.True(decimal.RequireFromString("180.46").Equal(stats.TodayRevenue), "revenue %s", stats.TodayRevenue)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestDashboardStats_AnyQueryFails() {
	suite.mockRepo.On("CountActiveProducts", mock.Anything).Return(int64(6), nil).Maybe()
	suite.mockRepo.On("CountTransactions", mock.Anything).Return(int64(0), assert.AnError).Once()
	suite.mockRepo.On("SalesBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), decimal.Zero, nil).Maybe()
	suite.mockRepo.On("CountLowStockProducts", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()

	stats, err := suite.service.DashboardStats(context.Background())

	suite.Nil(stats)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *ReportingServiceTestSuite) TestListCategories_EmptyIsNotNil() {
	suite.mockRepo.On("ListActiveCategories", mock.Anything).Return(nil, nil).Once()

	categories, err := suite.service.ListCategories(context.Background())

	suite.Require().NoError(err)
	suite.NotNil(categories)
	suite.Empty(categories)
}

func (suite *ReportingServiceTestSuite) TestExportTransactions() {
	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.SaleExportRow{{TransactionNumber: "TXN-000001", Quantity: 2}}
	suite.mockRepo.On("ListSaleExportRows", mock.Anything, &from, &to).Return(rows, nil).Once()

	got, err := suite.service.ExportTransactions(context.Background(), &from, &to)

	suite.Require().NoError(err)
	suite.Equal(rows, got)
}

func (suite *ReportingServiceTestSuite) TestExportTransactions_InvertedRange() {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	_, err := suite.service.ExportTransactions(context.Background(), &from, &to)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListSaleExportRows", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

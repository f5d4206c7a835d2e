package pgsql_test

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/SscSPs/pos_app/internal/core/domain"
	portssvc "github.com/SscSPs/pos_app/internal/core/ports/services"
	"github.com/SscSPs/pos_app/internal/core/services"
	"github.com/SscSPs/pos_app/internal/dto"
	"github.com/SscSPs/pos_app/internal/platform/logging"
	"github.com/SscSPs/pos_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/pos_app/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// testDatabaseEnv names a disposable PostgreSQL database. Its tables are truncated between tests.
const testDatabaseEnv = "POS_TEST_DATABASE_URL"

type PostgresIntegrationSuite struct {
	suite.Suite
	pool     *pgxpool.Pool
	services *portssvc.ServiceContainer
}

func TestPostgresIntegration(t *testing.T) {
	if os.Getenv(testDatabaseEnv) == "" {
		t.Skipf("%s not set", testDatabaseEnv)
	}
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	url := os.Getenv(testDatabaseEnv)
	logger := logging.NewWithWriter(io.Discard, "error")

	s.Require().NoError(database.RunMigrations(url, "file://../../../../migrations", logger))

	pool, err := database.NewPgxPool(context.Background(), url, true)
	s.Require().NoError(err)
	s.pool = pool
	s.services = services.NewServiceContainer(pgsql.NewRepositoryProvider(pool), nil)
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		database.ClosePgxPool(s.pool)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE transaction_items, transactions, products`)
	s.Require().NoError(err)
}

func (s *PostgresIntegrationSuite) createProduct(name, price string, stock int, category string) *domain.Product {
	p := decimal.RequireFromString(price)
	product, err := s.services.Product.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name:     name,
		Price:    &p,
		Stock:    &stock,
		Category: category,
	})
	s.Require().NoError(err)
	return product
}

func (s *PostgresIntegrationSuite) stockOf(productID string) int {
	p, err := s.services.Product.GetProductByID(context.Background(), productID)
	s.Require().NoError(err)
	return p.Stock
}

func (s *PostgresIntegrationSuite) countTransactions() int {
	var n int
	s.Require().NoError(s.pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM transactions`).Scan(&n))
	return n
}

func sale(lines ...dto.TransactionItemRequest) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{Items: lines}
}

func line(productID string, qty int) dto.TransactionItemRequest {
	return dto.TransactionItemRequest{ProductID: productID, Quantity: qty}
}

func (s *PostgresIntegrationSuite) TestSaleDecrementsStockAndSnapshotsItems() {
	ctx := context.Background()
	coffee := s.createProduct("Coffee", "24.99", 50, "Beverages")
	tax := decimal.RequireFromString("2.00")

	req := sale(line(coffee.ProductID, 2))
	req.Tax = &tax
	txn, err := s.services.Transaction.CreateTransaction(ctx, req)
	s.Require().NoError(err)

	s.True(decimal.RequireFromString("49.98").Equal(txn.Subtotal))
	s.True(decimal.RequireFromString("51.98").Equal(txn.Total))
	s.Regexp(`^TXN-\d{6,}$`, txn.TransactionNumber)
	s.Equal(48, s.stockOf(coffee.ProductID))

	// Renaming the product later must not rewrite the sale.
	newName := "Espresso"
	_, err = s.services.Product.UpdateProduct(ctx, coffee.ProductID, dto.UpdateProductRequest{Name: &newName})
	s.Require().NoError(err)

	stored, err := s.services.Transaction.GetTransactionByID(ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.Require().Len(stored.Items, 1)
	s.Equal("Coffee", stored.Items[0].ProductName)
	s.True(decimal.RequireFromString("24.99").Equal(stored.Items[0].Price))
	s.True(stored.IsBalanced())
}

func (s *PostgresIntegrationSuite) TestFailedSaleWritesNothing() {
	ctx := context.Background()
	coffee := s.createProduct("Coffee", "24.99", 5, "Beverages")
	gum := s.createProduct("Gum", "1.00", 1, "Snacks")

	_, err := s.services.Transaction.CreateTransaction(ctx, sale(line(coffee.ProductID, 2), line(gum.ProductID, 3)))
	s.ErrorIs(err, apperrors.ErrInsufficientStock)

	_, err = s.services.Transaction.CreateTransaction(ctx, sale(line(coffee.ProductID, 1), line("no-such-product", 1)))
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Equal(5, s.stockOf(coffee.ProductID))
	s.Equal(1, s.stockOf(gum.ProductID))
	s.Equal(0, s.countTransactions())
}

func (s *PostgresIntegrationSuite) TestConcurrentSalesNeverOversell() {
	ctx := context.Background()
	last := s.createProduct("Last One", "5.00", 1, "General")

	const buyers = 8
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.services.Transaction.CreateTransaction(ctx, sale(line(last.ProductID, 1)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, apperrors.ErrInsufficientStock)
	}
	s.Equal(1, succeeded)
	s.Equal(0, s.stockOf(last.ProductID))
	s.Equal(1, s.countTransactions())
}

func (s *PostgresIntegrationSuite) TestListTransactionsPagesWithToken() {
	ctx := context.Background()
	tea := s.createProduct("Tea", "3.00", 10, "Beverages")
	numbers := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		txn, err := s.services.Transaction.CreateTransaction(ctx, sale(line(tea.ProductID, 1)))
		s.Require().NoError(err)
		numbers = append(numbers, txn.TransactionNumber)
	}

	first, token, err := s.services.Transaction.ListTransactions(ctx, dto.ListTransactionsParams{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(first, 2)
	s.Require().NotNil(token)
	s.Equal(numbers[2], first[0].TransactionNumber)
	s.Equal(numbers[1], first[1].TransactionNumber)
	s.Len(first[0].Items, 1)

	second, token, err := s.services.Transaction.ListTransactions(ctx, dto.ListTransactionsParams{Limit: 2, NextToken: *token})
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Nil(token)
	s.Equal(numbers[0], second[0].TransactionNumber)

	bySkip, _, err := s.services.Transaction.ListTransactions(ctx, dto.ListTransactionsParams{Limit: 2, Skip: 2})
	s.Require().NoError(err)
	s.Require().Len(bySkip, 1)
	s.Equal(numbers[0], bySkip[0].TransactionNumber)
}

func (s *PostgresIntegrationSuite) TestSameInstantSalesOrderBySequencePastSixDigits() {
	ctx := context.Background()
	tea := s.createProduct("Tea", "3.00", 10, "Beverages")
	_, err := s.pool.Exec(ctx, `SELECT setval('transaction_number_seq', 999998)`)
	s.Require().NoError(err)

	instant := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repos := pgsql.NewRepositoryProvider(s.pool)
	frozen := services.NewTransactionService(repos.TransactionRepo, repos.ProductRepo,
		services.WithTransactionClock(func() time.Time { return instant }))

	for i := 0; i < 3; i++ {
		_, err := frozen.CreateTransaction(ctx, sale(line(tea.ProductID, 1)))
		s.Require().NoError(err)
	}

	all, _, err := frozen.ListTransactions(ctx, dto.ListTransactionsParams{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("TXN-1000001", all[0].TransactionNumber)
	s.Equal("TXN-1000000", all[1].TransactionNumber)
	s.Equal("TXN-999999", all[2].TransactionNumber)

	first, token, err := frozen.ListTransactions(ctx, dto.ListTransactionsParams{Limit: 1})
	s.Require().NoError(err)
	s.Require().NotNil(token)
	s.Equal("TXN-1000001", first[0].TransactionNumber)

	second, _, err := frozen.ListTransactions(ctx, dto.ListTransactionsParams{Limit: 1, NextToken: *token})
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Equal("TXN-1000000", second[0].TransactionNumber)
}

func (s *PostgresIntegrationSuite) TestCatalogListingAndSoftDelete() {
	ctx := context.Background()
	s.createProduct("Dark Chocolate", "8.50", 100, "Snacks")
	s.createProduct("Coffee", "24.99", 3, "Beverages")
	promo := s.createProduct("100% Juice", "4.00", 20, "Beverages")

	found, err := s.services.Product.ListProducts(ctx, dto.ListProductsParams{Search: "CHOC", ActiveOnly: true})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("Dark Chocolate", found[0].Name)

	// % in the search term is matched literally.
	found, err = s.services.Product.ListProducts(ctx, dto.ListProductsParams{Search: "100%", ActiveOnly: true})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(promo.ProductID, found[0].ProductID)

	s.Require().NoError(s.services.Product.DeactivateProduct(ctx, promo.ProductID))
	s.Require().NoError(s.services.Product.DeactivateProduct(ctx, promo.ProductID))

	active, err := s.services.Product.ListProducts(ctx, dto.ListProductsParams{ActiveOnly: true})
	s.Require().NoError(err)
	s.Len(active, 2)
	s.Equal("Coffee", active[0].Name)

	all, err := s.services.Product.ListProducts(ctx, dto.ListProductsParams{ActiveOnly: false})
	s.Require().NoError(err)
	s.Len(all, 3)

	_, err = s.services.Transaction.CreateTransaction(ctx, sale(line(promo.ProductID, 1)))
	s.ErrorIs(err, apperrors.ErrValidation)

	s.ErrorIs(s.services.Product.DeactivateProduct(ctx, "no-such-product"), apperrors.ErrNotFound)

	categories, err := s.services.Reporting.ListCategories(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Beverages", "Snacks"}, categories)
}

func (s *PostgresIntegrationSuite) TestDashboardAndExport() {
	ctx := context.Background()
	coffee := s.createProduct("Coffee", "24.99", 12, "Beverages")
	s.createProduct("Gum", "1.00", 2, "Snacks")

	_, err := s.services.Transaction.CreateTransaction(ctx, sale(line(coffee.ProductID, 3)))
	s.Require().NoError(err)

	stats, err := s.services.Reporting.DashboardStats(ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.TotalProducts)
	s.Equal(int64(1), stats.TotalTransactions)
	s.Equal(int64(1), stats.TodayTransactions)
	s.True(decimal.RequireFromString("74.97").Equal(stats.TodayRevenue))
	s.Equal(int64(2), stats.LowStockCount)

	rows, err := s.services.Reporting.ExportTransactions(ctx, nil, nil)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("Coffee", rows[0].ProductName)
	s.Equal(3, rows[0].Quantity)
}

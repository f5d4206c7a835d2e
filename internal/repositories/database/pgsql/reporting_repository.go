package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/pos_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountActiveProducts counts products with is_active = true.
func (r *reportingRepository) CountActiveProducts(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM products WHERE is_active = TRUE;`)
	if err != nil {
		return 0, fmt.Errorf("error counting active products: %w", err)
	}
	return n, nil
}

// CountTransactions counts all sales ever recorded.
func (r *reportingRepository) CountTransactions(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM transactions;`)
	if err != nil {
		return 0, fmt.Errorf("error counting transactions: %w", err)
	}
	return n, nil
}

// SalesBetween returns the number of sales in [from, to) and the sum of their totals.
func (r *reportingRepository) SalesBetween(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM transactions
		WHERE created_at >= $1 AND created_at < $2;
	`
	var n int64
	var revenue decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, from, to).Scan(&n, &revenue); err != nil {
		return 0, decimal.Zero, fmt.Errorf("error summing sales between %s and %s: %w",
			from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}
	return n, revenue, nil
}

// CountLowStockProducts counts active products with stock below threshold.
func (r *reportingRepository) CountLowStockProducts(ctx context.Context, threshold int) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM products WHERE is_active = TRUE AND stock < $1;`, threshold)
	if err != nil {
		return 0, fmt.Errorf("error counting low stock products: %w", err)
	}
	return n, nil
}

// ListActiveCategories returns the distinct categories of active products, sorted.
func (r *reportingRepository) ListActiveCategories(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT category FROM products WHERE is_active = TRUE ORDER BY category;`)
	if err != nil {
		return nil, fmt.Errorf("error querying categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// ListSaleExportRows returns one row per sold item with its sale's header fields, oldest first.
func (r *reportingRepository) ListSaleExportRows(ctx context.Context, from, to *time.Time) ([]domain.SaleExportRow, error) {
	var conditions []string
	var args []any
	if from != nil {
		args = append(args, *from)
		conditions = append(conditions, "t.created_at >= $"+strconv.Itoa(len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conditions = append(conditions, "t.created_at < $"+strconv.Itoa(len(args)))
	}

	query := `
		SELECT t.transaction_number, t.created_at, t.payment_method, COALESCE(t.customer_name, ''),
		       i.product_id, i.product_name, i.price, i.quantity, i.total,
		       t.subtotal, t.tax, t.discount, t.total
		FROM transactions t
		JOIN transaction_items i ON i.transaction_id = t.transaction_id
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.created_at, t.transaction_seq, i.line_no"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sale export rows: %w", err)
	}
	defer rows.Close()

	result := []domain.SaleExportRow{}
	for rows.Next() {
		var row domain.SaleExportRow
		if err := rows.Scan(
			&row.TransactionNumber,
			&row.CreatedAt,
			&row.PaymentMethod,
			&row.CustomerName,
			&row.ProductID,
			&row.ProductName,
			&row.Price,
			&row.Quantity,
			&row.LineTotal,
			&row.Subtotal,
			&row.Tax,
			&row.Discount,
			&row.Total,
		); err != nil {
			return nil, fmt.Errorf("error scanning sale export row: %w", err)
		}
		row.CreatedAt = row.CreatedAt.UTC()
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale export rows: %w", err)
	}
	return result, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/SscSPs/pos_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_app/internal/core/ports/repositories"
	"github.com/SscSPs/pos_app/internal/models"
	"github.com/SscSPs/pos_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, transaction_number, transaction_seq, subtotal, tax, discount, total, payment_method, customer_name, notes, status, created_at`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for sale history.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryWithTx
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionNumber,
		&m.TransactionSeq,
		&m.Subtotal,
		&m.Tax,
		&m.Discount,
		&m.Total,
		&m.PaymentMethod,
		&m.CustomerName,
		&m.Notes,
		&m.Status,
		&m.CreatedAt,
	)
	return m, err
}

// NextTransactionNumber draws the next value of transaction_number_seq inside tx.
// Sequence values are not returned on rollback, so numbers may have gaps.
func (r *PgxTransactionRepository) NextTransactionNumber(ctx context.Context, tx pgx.Tx) (int64, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('transaction_number_seq');`).Scan(&seq); err != nil {
		return 0, apperrors.NewAppError(500, "failed to draw transaction number", err)
	}
	return seq, nil
}

// SaveTransactionInTx inserts a sale and batch-inserts its items within tx.
func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m, items := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.TransactionNumber,
		m.TransactionSeq,
		m.Subtotal,
		m.Tax,
		m.Discount,
		m.Total,
		m.PaymentMethod,
		m.CustomerName,
		m.Notes,
		m.Status,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionNumber)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO transaction_items (transaction_id, line_no, product_id, product_name, price, quantity, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range items {
		batch.Queue(itemQuery,
			item.TransactionID,
			item.LineNo,
			item.ProductID,
			item.ProductName,
			item.Price,
			item.Quantity,
			item.Total,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert items for transaction "+m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a sale with its items.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("transaction %s", transactionID)
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	itemsByTxn, err := r.findItems(ctx, r.Pool, []string{m.TransactionID})
	if err != nil {
		return nil, err
	}

	txn := mapping.ToDomainTransaction(m, itemsByTxn[m.TransactionID])
	return &txn, nil
}

// ListTransactions retrieves a page of sales, newest first. The ordering
// (created_at DESC, transaction_seq DESC) is total, which keeps keyset
// pagination stable when two sales share a timestamp.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, page domain.TransactionPage) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	var args []any

	if page.After != nil {
		query += ` WHERE (created_at, transaction_seq) < ($1, $2)`
		args = append(args, page.After.CreatedAt, page.After.Sequence)
	}
	query += ` ORDER BY created_at DESC, transaction_seq DESC`
	if page.Limit > 0 {
		args = append(args, page.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if page.After == nil && page.Skip > 0 {
		args = append(args, page.Skip)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	headers := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	if len(headers) == 0 {
		return []domain.Transaction{}, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TransactionID
	}
	itemsByTxn, err := r.findItems(ctx, r.Pool, ids)
	if err != nil {
		return nil, err
	}

	txns := make([]domain.Transaction, len(headers))
	for i, h := range headers {
		txns[i] = mapping.ToDomainTransaction(h, itemsByTxn[h.TransactionID])
	}
	return txns, nil
}

// findItems loads the items of several sales in one query, grouped by sale.
func (r *PgxTransactionRepository) findItems(ctx context.Context, q querier, transactionIDs []string) (map[string][]models.TransactionItem, error) {
	query := `
		SELECT transaction_id, line_no, product_id, product_name, price, quantity, total
		FROM transaction_items
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, line_no;
	`
	rows, err := q.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transaction items", err)
	}
	defer rows.Close()

	result := make(map[string][]models.TransactionItem, len(transactionIDs))
	for rows.Next() {
		var item models.TransactionItem
		if err := rows.Scan(
			&item.TransactionID,
			&item.LineNo,
			&item.ProductID,
			&item.ProductName,
			&item.Price,
			&item.Quantity,
			&item.Total,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction item row", err)
		}
		result[item.TransactionID] = append(result[item.TransactionID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction item rows", err)
	}
	return result, nil
}

package repositories

import (
	"context"

	"github.com/SscSPs/pos_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for sale history
type TransactionReader interface {
	// FindTransactionByID retrieves a sale with its items.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of sales with items, newest first.
	ListTransactions(ctx context.Context, page domain.TransactionPage) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for sales. Sales are insert-only.
type TransactionWriter interface {
	// NextTransactionNumber draws the next value of the sale number sequence.
	NextTransactionNumber(ctx context.Context, tx pgx.Tx) (int64, error)

	// SaveTransactionInTx inserts a sale and its items within the given transaction.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all sale-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with unit-of-work control
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}

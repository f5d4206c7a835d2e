package services

import (
	"context"

	"github.com/SscSPs/pos_app/internal/core/domain"
	"github.com/SscSPs/pos_app/internal/dto"
)

// TransactionReaderSvc defines read operations for sale history
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a sale with its items.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of sales, newest first.
	// It returns the sales and a token for the next page (nil on the last page).
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// TransactionWriterSvc defines write operations for sales
type TransactionWriterSvc interface {
	// CreateTransaction prices, numbers and records a sale, decrementing stock atomically.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all sale-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

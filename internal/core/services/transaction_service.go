package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/SscSPs/pos_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_app/internal/core/ports/services"
	"github.com/SscSPs/pos_app/internal/dto"
	"github.com/SscSPs/pos_app/internal/utils/pagination"
	"github.com/google/uuid"
)

const defaultTransactionLimit = 50

// SalesRecorder receives a notification for every recorded or rejected sale.
// The metrics package provides the production implementation.
type SalesRecorder interface {
	RecordSale(txn domain.Transaction)
	RecordStockRejection()
}

type noopSalesRecorder struct{}

func (noopSalesRecorder) RecordSale(domain.Transaction) {}
func (noopSalesRecorder) RecordStockRejection()         {}

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryWithTx
	productRepo portsrepo.ProductRepositoryFacade
	recorder    SalesRecorder
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionClock overrides the clock used for sale timestamps
func WithTransactionClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// WithSalesRecorder adds a sales metrics sink
func WithSalesRecorder(recorder SalesRecorder) TransactionServiceOption {
	return func(s *transactionService) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryWithTx,
	productRepo portsrepo.ProductRepositoryFacade,
	options ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:     txnRepo,
		productRepo: productRepo,
		recorder:    noopSalesRecorder{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction records a sale as one unit of work: lock the referenced
// products, price the sale from the locked rows, decrement stock, draw the
// next number and insert the sale with its items. Any failure rolls back
// everything, so stock and history never disagree.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	sale := req.ToSaleRequest()
	if err := sale.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin sale")
		return nil, fmt.Errorf("failed to begin sale: %w", err)
	}
	defer func() {
		// No-op once committed.
		if rbErr := s.txnRepo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back sale")
		}
	}()

	products, err := s.productRepo.FindProductsByIDsForUpdate(ctx, tx, sale.ProductIDs())
	if err != nil {
		s.LogError(ctx, err, "Failed to lock products for sale")
		return nil, err
	}

	now := s.Now()
	txn, err := domain.BuildTransaction(uuid.NewString(), sale, products, now)
	if err != nil {
		s.rejected(ctx, err)
		return nil, err
	}

	if err := s.productRepo.DecrementStockInTx(ctx, tx, sale.StockDemand(), now); err != nil {
		s.rejected(ctx, err)
		return nil, err
	}

	seq, err := s.txnRepo.NextTransactionNumber(ctx, tx)
	if err != nil {
		s.LogError(ctx, err, "Failed to draw transaction number")
		return nil, err
	}
	txn.AssignNumber(seq)

	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to save sale", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit sale", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	s.recorder.RecordSale(*txn)
	s.LogInfo(ctx, "Sale recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber),
		slog.Int("items", len(txn.Items)),
		slog.String("total", txn.Total.StringFixed(domain.MoneyPlaces)))
	return txn, nil
}

func (s *transactionService) rejected(ctx context.Context, err error) {
	if errors.Is(err, apperrors.ErrInsufficientStock) {
		s.recorder.RecordStockRejection()
	}
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrConflict) {
		s.LogWarn(ctx, "Sale rejected", slog.String("reason", err.Error()))
		return
	}
	s.LogError(ctx, err, "Failed to process sale")
}

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	page := domain.TransactionPage{Limit: limit + 1, Skip: params.Skip}

	if params.NextToken != "" {
		createdAt, seq, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		page.After = &domain.TransactionCursor{CreatedAt: createdAt, Sequence: seq}
		page.Skip = 0
	}

	txns, err := s.txnRepo.ListTransactions(ctx, page)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int("limit", limit), slog.Int("skip", params.Skip))
		return nil, nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}

	// One extra row was requested to learn whether another page exists.
	var nextToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.Sequence)
		nextToken = &token
	}
	return txns, nextToken, nil
}

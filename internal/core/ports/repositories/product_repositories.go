package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ProductReader defines read operations for catalog data
type ProductReader interface {
	// FindProductByID retrieves a product by id, active or not.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListProducts retrieves products matching the filter.
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// ProductWriter defines write operations for catalog data
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct overwrites the mutable fields of an existing product.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// DeactivateProduct soft-deletes a product. Deactivating an inactive product is not an error.
	DeactivateProduct(ctx context.Context, productID string, now time.Time) error
}

// ProductTransactionSupport defines catalog operations that run inside a sale's unit of work
type ProductTransactionSupport interface {
	// FindProductsByIDsForUpdate selects products and locks their rows, in id order.
	FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error)

	// DecrementStockInTx subtracts quantities from stock, failing if any product would go negative.
	DecrementStockInTx(ctx context.Context, tx pgx.Tx, demand map[string]int, now time.Time) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	ProductTransactionSupport
}

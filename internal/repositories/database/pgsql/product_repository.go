package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/SscSPs/pos_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_app/internal/core/ports/repositories"
	"github.com/SscSPs/pos_app/internal/models"
	"github.com/SscSPs/pos_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `product_id, name, description, price, stock, category, image, is_active, created_at, updated_at`

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for catalog data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.Name,
		&m.Description,
		&m.Price,
		&m.Stock,
		&m.Category,
		&m.Image,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProductID,
		m.Name,
		m.Description,
		m.Price,
		m.Stock,
		m.Category,
		m.Image,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product with ID %s already exists", apperrors.ErrDuplicate, m.ProductID)
		}
		return apperrors.NewAppError(500, "failed to save product "+m.ProductID, err)
	}
	return nil
}

// FindProductByID retrieves a product by its ID, active or not.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`

	m, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("product %s", productID)
		}
		return nil, apperrors.NewAppError(500, "failed to find product by ID "+productID, err)
	}

	product := mapping.ToDomainProduct(m)
	return &product, nil
}

// ListProducts retrieves products matching the filter, ordered by name.
func (r *PgxProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var conditions []string
	var args []any

	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, "category = $"+strconv.Itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, likePattern(filter.Search))
		n := strconv.Itoa(len(args))
		conditions = append(conditions, `(name ILIKE $`+n+` ESCAPE '\' OR category ILIKE $`+n+` ESCAPE '\')`)
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name, product_id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		products = append(products, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}

	return mapping.ToDomainProductSlice(products), nil
}

// UpdateProduct overwrites the mutable fields of an existing product.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, category = $6,
		    image = $7, is_active = $8, updated_at = $9
		WHERE product_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ProductID,
		m.Name,
		m.Description,
		m.Price,
		m.Stock,
		m.Category,
		m.Image,
		m.IsActive,
		m.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update product "+m.ProductID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFoundf("product %s", m.ProductID)
	}
	return nil
}

// DeactivateProduct sets is_active to false. updated_at only moves on the
// first deactivation, so repeated calls leave the row untouched.
func (r *PgxProductRepository) DeactivateProduct(ctx context.Context, productID string, now time.Time) error {
	query := `
		UPDATE products
		SET is_active = FALSE,
		    updated_at = CASE WHEN is_active THEN $2 ELSE updated_at END
		WHERE product_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, productID, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate product "+productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFoundf("product %s", productID)
	}
	return nil
}

// FindProductsByIDsForUpdate selects the given products and locks their rows
// until tx ends. Rows are locked in product_id order so concurrent sales over
// overlapping products cannot deadlock. Ids with no row are absent from the map.
func (r *PgxProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE product_id = ANY($1)
		ORDER BY product_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, productIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock products", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked product row", err)
		}
		result[m.ProductID] = mapping.ToDomainProduct(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked product rows", err)
	}
	return result, nil
}

// DecrementStockInTx subtracts the demanded quantities in one batch. Each
// update only applies while stock covers the quantity; a row that does not
// match means another writer won the race and the sale must fail.
func (r *PgxProductRepository) DecrementStockInTx(ctx context.Context, tx pgx.Tx, demand map[string]int, now time.Time) error {
	if len(demand) == 0 {
		return nil
	}

	productIDs := make([]string, 0, len(demand))
	for id, qty := range demand {
		if qty <= 0 || qty > domain.MaxQuantity {
			return apperrors.Validationf("invalid quantity %d for product %s", qty, id)
		}
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE product_id = $1 AND stock >= $2;
	`
	batch := &pgx.Batch{}
	for _, id := range productIDs {
		batch.Queue(query, id, demand[id], now)
	}

	br := tx.SendBatch(ctx, batch)
	for _, id := range productIDs {
		cmdTag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return apperrors.NewAppError(500, "failed to decrement stock for product "+id, err)
		}
		if cmdTag.RowsAffected() == 0 {
			_ = br.Close()
			return fmt.Errorf("%w: product %s", apperrors.ErrInsufficientStock, id)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close stock decrement batch", err)
	}
	return nil
}

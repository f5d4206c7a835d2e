package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to products created without a category.
const DefaultCategory = "General"

// Product is a sellable catalog entry. Products are never physically deleted;
// IsActive=false hides them from the catalog while sales keep their snapshots.
type Product struct {
	ProductID   string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Image       *string         `json:"image,omitempty"` // base64 payload, stored inline
	IsActive    bool            `json:"is_active"`
	Timestamps
}

// Validate checks the catalog invariants: non-empty name, 0 < price <= MaxPrice,
// 0 <= stock <= MaxQuantity.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.Validationf("name is required")
	}
	if !p.Price.IsPositive() {
		return apperrors.Validationf("price must be greater than 0")
	}
	if p.Price.GreaterThan(MaxPrice) {
		return apperrors.Validationf("price must be at most %s", MaxPrice.StringFixed(MoneyPlaces))
	}
	if p.Stock < 0 {
		return apperrors.Validationf("stock cannot be negative")
	}
	if p.Stock > MaxQuantity {
		return apperrors.Validationf("stock must be at most %d", MaxQuantity)
	}
	return nil
}

// IsLowStock reports whether an active product has fallen under LowStockThreshold.
func (p Product) IsLowStock() bool {
	return p.IsActive && p.Stock < LowStockThreshold
}

// NewProductParams carries the caller-supplied fields for a new product.
type NewProductParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Image       *string
	IsActive    *bool
}

// NewProduct builds a validated Product from params, applying defaults.
func NewProduct(id string, params NewProductParams, now time.Time) (Product, error) {
	category := strings.TrimSpace(params.Category)
	if category == "" {
		category = DefaultCategory
	}
	active := true
	if params.IsActive != nil {
		active = *params.IsActive
	}

	p := Product{
		ProductID:   id,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		Price:       RoundMoney(params.Price),
		Stock:       params.Stock,
		Category:    category,
		Image:       normalizeImage(params.Image),
		IsActive:    active,
		Timestamps: Timestamps{
			CreatedAt: now.UTC(),
			UpdatedAt: now.UTC(),
		},
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ProductPatch is a partial update. A nil field means "leave untouched", so an
// explicit zero (price 0, stock 0) is distinguishable from an omitted field.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Category    *string
	Image       *string // "" clears the image
	IsActive    *bool
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Stock == nil &&
		p.Category == nil && p.Image == nil && p.IsActive == nil
}

// Apply merges the patch into a copy of the product and validates the result.
// The receiver is not modified when validation fails.
func (p Product) Apply(patch ProductPatch, now time.Time) (Product, error) {
	if patch.IsEmpty() {
		return Product{}, apperrors.Validationf("no fields to update")
	}

	updated := p
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Price != nil {
		updated.Price = RoundMoney(*patch.Price)
	}
	if patch.Stock != nil {
		updated.Stock = *patch.Stock
	}
	if patch.Category != nil {
		updated.Category = strings.TrimSpace(*patch.Category)
		if updated.Category == "" {
			updated.Category = DefaultCategory
		}
	}
	if patch.Image != nil {
		updated.Image = normalizeImage(patch.Image)
	}
	if patch.IsActive != nil {
		updated.IsActive = *patch.IsActive
	}

	if err := updated.Validate(); err != nil {
		return Product{}, err
	}
	updated.UpdatedAt = now.UTC()
	return updated, nil
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	ActiveOnly bool
	Category   string
	Search     string // case-insensitive match on name or category
	Limit      int
}

func normalizeImage(image *string) *string {
	if image == nil || *image == "" {
		return nil
	}
	v := *image
	return &v
}

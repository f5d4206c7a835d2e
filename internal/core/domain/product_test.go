package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/SscSPs/pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	inactive := false

	tests := []struct {
		name    string
		params  domain.NewProductParams
		wantErr bool
		errMsg  string
		check   func(t *testing.T, p domain.Product)
	}{
		{
			name:   "defaults applied",
			params: domain.NewProductParams{Name: "  Coffee ", Price: decimal.RequireFromString("24.99"), Stock: 50},
			check: func(t *testing.T, p domain.Product) {
				assert.Equal(t, "Coffee", p.Name)
				assert.Equal(t, domain.DefaultCategory, p.Category)
				assert.True(t, p.IsActive)
				assert.Nil(t, p.Image)
				assert.Equal(t, now, p.CreatedAt)
				assert.Equal(t, now, p.UpdatedAt)
			},
		},
		{
			name:   "explicit inactive and zero stock",
			params: domain.NewProductParams{Name: "Tea", Price: decimal.NewFromInt(3), Stock: 0, Category: "Beverages", IsActive: &inactive},
			check: func(t *testing.T, p domain.Product) {
				assert.False(t, p.IsActive)
				assert.Equal(t, 0, p.Stock)
				assert.Equal(t, "Beverages", p.Category)
			},
		},
		{
			name:   "price rounded to cents",
			params: domain.NewProductParams{Name: "Gum", Price: decimal.RequireFromString("0.345"), Stock: 1},
			check: func(t *testing.T, p domain.Product) {
				assert.True(t, decimal.RequireFromString("0.35").Equal(p.Price))
			},
		},
		{name: "empty name", params: domain.NewProductParams{Name: "  ", Price: decimal.NewFromInt(1)}, wantErr: true, errMsg: "name is required"},
		{name: "zero price", params: domain.NewProductParams{Name: "Free", Price: decimal.Zero}, wantErr: true, errMsg: "price must be greater than 0"},
		{name: "price rounds to zero", params: domain.NewProductParams{Name: "Dust", Price: decimal.RequireFromString("0.001")}, wantErr: true, errMsg: "price must be greater than 0"},
		{name: "negative stock", params: domain.NewProductParams{Name: "Ghost", Price: decimal.NewFromInt(1), Stock: -1}, wantErr: true, errMsg: "stock cannot be negative"},
		{name: "price above column range", params: domain.NewProductParams{Name: "Yacht", Price: decimal.RequireFromString("1e11"), Stock: 1}, wantErr: true, errMsg: "price must be at most 9999999999.99"},
		{name: "price rounds above column range", params: domain.NewProductParams{Name: "Yacht", Price: decimal.RequireFromString("9999999999.995"), Stock: 1}, wantErr: true, errMsg: "price must be at most"},
		{name: "stock above column range", params: domain.NewProductParams{Name: "Sand", Price: decimal.NewFromInt(1), Stock: math.MaxInt32 + 10}, wantErr: true, errMsg: "stock must be at most 2147483647"},
		{
			name:   "largest storable price and stock",
			params: domain.NewProductParams{Name: "Bulk", Price: domain.MaxPrice, Stock: domain.MaxQuantity},
			check: func(t *testing.T, p domain.Product) {
				assert.True(t, domain.MaxPrice.Equal(p.Price))
				assert.Equal(t, math.MaxInt32, p.Stock)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := domain.NewProduct("p-1", tt.params, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "p-1", p.ProductID)
			tt.check(t, p)
		})
	}
}

func TestProduct_Apply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)
	image := "aGVsbG8="
	base := domain.Product{
		ProductID:  "p-1",
		Name:       "Coffee",
		Price:      decimal.RequireFromString("9.99"),
		Stock:      5,
		Category:   "Beverages",
		Image:      &image,
		IsActive:   true,
		Timestamps: domain.Timestamps{CreatedAt: created, UpdatedAt: created},
	}

	t.Run("only present fields change", func(t *testing.T) {
		stock := 0
		updated, err := base.Apply(domain.ProductPatch{Stock: &stock}, later)
		require.NoError(t, err)
		assert.Equal(t, 0, updated.Stock)
		assert.True(t, base.Price.Equal(updated.Price))
		assert.Equal(t, "Coffee", updated.Name)
		assert.Equal(t, later, updated.UpdatedAt)
		assert.Equal(t, created, updated.CreatedAt)
		assert.Equal(t, 5, base.Stock, "receiver must not change")
	})

	t.Run("explicit zero price is rejected, not ignored", func(t *testing.T) {
		zero := decimal.Zero
		_, err := base.Apply(domain.ProductPatch{Price: &zero}, later)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("stock above column range is rejected", func(t *testing.T) {
		stock := domain.MaxQuantity + 1
		_, err := base.Apply(domain.ProductPatch{Stock: &stock}, later)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Contains(t, err.Error(), "stock must be at most")
	})

	t.Run("negative stock is rejected", func(t *testing.T) {
		stock := -3
		_, err := base.Apply(domain.ProductPatch{Stock: &stock}, later)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("empty image clears it and blank category defaults", func(t *testing.T) {
		empty := ""
		blank := " "
		updated, err := base.Apply(domain.ProductPatch{Image: &empty, Category: &blank}, later)
		require.NoError(t, err)
		assert.Nil(t, updated.Image)
		assert.Equal(t, domain.DefaultCategory, updated.Category)
	})

	t.Run("empty patch", func(t *testing.T) {
		_, err := base.Apply(domain.ProductPatch{}, later)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Contains(t, err.Error(), "no fields to update")
	})
}

func TestProduct_IsLowStock(t *testing.T) {
	p := domain.Product{IsActive: true, Stock: domain.LowStockThreshold - 1}
	assert.True(t, p.IsLowStock())

	p.Stock = domain.LowStockThreshold
	assert.False(t, p.IsLowStock())

	p.Stock = 0
	p.IsActive = false
	assert.False(t, p.IsLowStock())
}

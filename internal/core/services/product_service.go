package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/SscSPs/pos_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_app/internal/core/ports/services"
	"github.com/SscSPs/pos_app/internal/dto"
	"github.com/google/uuid"
)

// productService implements the ProductSvcFacade interface
type productService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

// ProductServiceOption is a functional option for configuring the product service
type ProductServiceOption func(*productService)

// WithProductClock overrides the clock used for timestamps
func WithProductClock(now func() time.Time) ProductServiceOption {
	return func(s *productService) {
		s.now = now
	}
}

// NewProductService creates a new product service with the provided options
func NewProductService(repo portsrepo.ProductRepositoryFacade, options ...ProductServiceOption) portssvc.ProductSvcFacade {
	svc := &productService{productRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure productService implements the ProductSvcFacade interface
var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error) {
	if req.Price == nil || req.Stock == nil {
		return nil, apperrors.Validationf("price and stock are required")
	}

	product, err := domain.NewProduct(uuid.NewString(), domain.NewProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		Category:    req.Category,
		Image:       req.Image,
		IsActive:    req.IsActive,
	}, s.Now())
	if err != nil {
		s.LogDebug(ctx, "Rejected product", slog.String("reason", err.Error()))
		return nil, err
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product", slog.String("product_id", product.ProductID))
		return nil, err
	}

	s.LogInfo(ctx, "Product created",
		slog.String("product_id", product.ProductID),
		slog.String("category", product.Category))
	return &product, nil
}

func (s *productService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find product", slog.String("product_id", productID))
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	filter := domain.ProductFilter{
		ActiveOnly: params.ActiveOnly,
		Category:   strings.TrimSpace(params.Category),
		Search:     strings.TrimSpace(params.Search),
		Limit:      limit,
	}

	products, err := s.productRepo.ListProducts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list products",
			slog.String("category", filter.Category),
			slog.Bool("active_only", filter.ActiveOnly))
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest) (*domain.Product, error) {
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return nil, apperrors.Validationf("no fields to update")
	}

	existing, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load product for update", slog.String("product_id", productID))
		}
		return nil, err
	}

	updated, err := existing.Apply(patch, s.Now())
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.UpdateProduct(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, err
	}

	s.LogInfo(ctx, "Product updated", slog.String("product_id", productID))
	return &updated, nil
}

func (s *productService) DeactivateProduct(ctx context.Context, productID string) error {
	if err := s.productRepo.DeactivateProduct(ctx, productID, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate product", slog.String("product_id", productID))
		}
		return err
	}
	s.LogInfo(ctx, "Product deactivated", slog.String("product_id", productID))
	return nil
}

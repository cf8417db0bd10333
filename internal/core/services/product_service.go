package services

import (
	"context"
	"fmt"
	"time"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// productService manages the product catalog.
type productService struct {
	store portsrepo.DocumentStore
}

// NewProductService creates a new product service.
func NewProductService(store portsrepo.DocumentStore) portssvc.ProductSvcFacade {
	return &productService{store: store}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

// CreateProduct adds a product to the catalog.
func (s *productService) CreateProduct(ctx context.Context, actor domain.Actor, req dto.CreateProductRequest) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.SalePrice.IsNegative() {
		return nil, fmt.Errorf("%w: sale price must not be negative", apperrors.ErrValidation)
	}
	unit := req.Unit
	if unit == "" {
		unit = "piece"
	}
	category := req.Category
	if category == "" {
		category = "general"
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	product := domain.Product{
		ProductID: "product_" + id,
		Name:      req.Name,
		SKU:       id[:8],
		Unit:      unit,
		Category:  category,
		SalePrice: req.SalePrice,
		CostPrice: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	doc, err := domain.NewDocument(product.ProductID, domain.KindProduct, now, product)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	logger.Info("Product created", "product_id", product.ProductID)
	return &product, nil
}

// GetProduct returns one product by identity.
func (s *productService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	doc, err := s.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if doc.Deleted || doc.Kind != domain.KindProduct {
		return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
	}
	var product domain.Product
	if err := doc.DecodeBody(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns every live product.
func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	docs, err := s.store.ScanKind(ctx, domain.KindProduct)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		var product domain.Product
		if err := doc.DecodeBody(&product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// UpdateProduct revises mutable product fields. Products are last-writer-wins
// documents; a concurrent update from another replica resolves at merge time.
func (s *productService) UpdateProduct(ctx context.Context, actor domain.Actor, productID string, req dto.UpdateProductRequest) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		product.Name = *req.Name
		updated = true
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
		updated = true
	}
	if req.Category != nil {
		product.Category = *req.Category
		updated = true
	}
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return nil, fmt.Errorf("%w: sale price must not be negative", apperrors.ErrValidation)
		}
		product.SalePrice = *req.SalePrice
		updated = true
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
		updated = true
	}
	if !updated {
		return product, nil
	}

	now := time.Now().UTC()
	product.LastUpdatedAt = now
	product.LastUpdatedBy = actor.UserID

	doc, err := domain.NewDocument(product.ProductID, domain.KindProduct, now, product)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Put(ctx, doc); err != nil {
		return nil, fmt.Errorf("update product %s: %w", productID, err)
	}
	logger.Info("Product updated", "product_id", productID)
	return product, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/repo"
	"storefront/internal/search"
	"storefront/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo

	// ES is optional; without it only /products/search is unavailable.
	ES      *elasticsearch.Client
	ESIndex string
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, f, offset, limit)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("Product not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" || req.Description == "" {
		return nil, fmt.Errorf("Name and description are required: %w", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("Price cannot be negative: %w", ErrValidation)
	}
	if !models.ValidCategory(req.Category) {
		return nil, fmt.Errorf("Invalid category: %w", ErrValidation)
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Brand:       req.Brand,
		Stock:       req.Stock,
		Images:      req.Images,
		Tags:        req.Tags,
		Featured:    req.Featured,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, req transport.UpdateProductRequest, id uuid.UUID) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("Price cannot be negative: %w", ErrValidation)
	}
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		return nil, fmt.Errorf("Invalid category: %w", ErrValidation)
	}

	product, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("Product not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("Product not found: %w", ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.Repo.Categories(ctx)
}

func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	return s.Repo.Brands(ctx)
}

func (s *CatalogService) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return s.Repo.FeaturedProducts(ctx, limit)
}

func (s *CatalogService) RelatedProducts(ctx context.Context, id uuid.UUID, limit int) ([]models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Repo.RelatedProducts(ctx, product, limit)
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.ES == nil {
		return 0, nil, fmt.Errorf("Search is not available: %w", ErrUnavailable)
	}
	return search.Search(ctx, s.ES, s.ESIndex, query, from, size)
}

// SyncSearchIndex mirrors a product write into the search index. Best
// effort; callers log the error and continue.
func (s *CatalogService) SyncSearchIndex(ctx context.Context, p *models.Product) error {
	if s.ES == nil {
		return nil
	}
	return search.Index(ctx, s.ES, s.ESIndex, p)
}

func (s *CatalogService) RemoveFromSearchIndex(ctx context.Context, id uuid.UUID) error {
	if s.ES == nil {
		return nil
	}
	return search.Delete(ctx, s.ES, s.ESIndex, id)
}

package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/transport"
)

type ProductFilter struct {
	Search      string
	Category    string
	Subcategory string
	Brand       string
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64
	Featured    bool
	InStock     bool
	Sort        string
}

func sortExpr(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "rating":
		return "rating DESC"
	case "popular":
		return "num_reviews DESC"
	case "newest":
		return "created_at DESC"
	default:
		return "created_at DESC"
	}
}

func (r *GormRepo) applyProductFilter(q *gorm.DB, f ProductFilter) *gorm.DB {
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?", like, like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Subcategory != "" {
		q = q.Where("subcategory = ?", f.Subcategory)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}
	if f.Featured {
		q = q.Where("featured = ?", true)
	}
	if f.InStock {
		q = q.Where("stock > 0")
	}
	return q
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	q := r.applyProductFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := q.Order(sortExpr(f.Sort)).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.UpdateProductRequest, id uuid.UUID) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}
	if req.Subcategory != nil {
		prod.Subcategory = *req.Subcategory
	}
	if req.Brand != nil {
		prod.Brand = *req.Brand
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}
	if req.Images != nil {
		prod.Images = *req.Images
	}
	if req.Tags != nil {
		prod.Tags = *req.Tags
	}
	if req.Featured != nil {
		prod.Featured = *req.Featured
	}

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &out).Error
	return out, err
}

func (r *GormRepo) Brands(ctx context.Context) ([]string, error) {
	var raw []string
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &raw).Error
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(raw))
	for _, b := range raw {
		if b != "" {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *GormRepo) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).
		Where("featured = ?", true).
		Order("rating DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *GormRepo) RelatedProducts(ctx context.Context, p *models.Product, limit int) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).
		Where("category = ? AND id <> ?", p.Category, p.ID).
		Order("rating DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
)

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access.
func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
	if err := r.DB.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartByUser does not create; callers that need lazy creation use
// GetOrCreateCart.
func (r *GormRepo) GetCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

// DeleteCartItem removes a line item; deleting an absent item is not an
// error.
func (r *GormRepo) DeleteCartItem(ctx context.Context, cartID, productID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).
			Where("id = ?", cartID).
			Update("total_price", 0).Error
	})
}

// RecalculateTotal re-derives total_price from the line items in a single
// statement, then returns the cart with items preloaded.
func (r *GormRepo) RecalculateTotal(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	sub := r.DB.Model(&models.CartItem{}).
		Select("COALESCE(SUM(price * quantity), 0)").
		Where("cart_id = ?", cartID)

	if err := r.DB.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("total_price", sub).Error; err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", cartID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

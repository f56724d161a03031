package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// CreateOrderFromCart persists the order, decrements stock and empties the
// cart in one transaction. Each line's decrement is conditional on enough
// stock remaining; if any line fails the whole transaction rolls back, so two
// concurrent checkouts cannot jointly overdraw a product.
func (r *GormRepo) CreateOrderFromCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).
			Where("id = ?", cartID).
			Update("total_price", 0).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// MarkPaid flips the paid flag exactly once. The guard on is_paid makes a
// duplicate webhook delivery or a concurrent confirm a reported no-op rather
// than a double-apply.
func (r *GormRepo) MarkPaid(ctx context.Context, id uuid.UUID, result models.PaymentResult) (*models.Order, bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND is_paid = ?", id, false).
			Updates(map[string]any{
				"is_paid":           true,
				"paid_at":           now,
				"status":            models.OrderStatusProcessing,
				"pay_id":            result.ID,
				"pay_status":        result.Status,
				"pay_update_time":   result.UpdateTime,
				"pay_email_address": result.EmailAddress,
			})
		if res.Error != nil {
			return res.Error
		}
		changed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	order, err := r.GetOrder(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return order, changed, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}

		updates := map[string]any{"status": status}
		if status == models.OrderStatusDelivered {
			updates["is_delivered"] = true
			updates["delivered_at"] = time.Now().UTC()
		}
		return tx.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, id)
}

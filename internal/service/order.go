package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/repo"
	"storefront/internal/transport"
)

type OrderService struct {
	Repo *repo.GormRepo
}

func completeAddress(a models.Address) bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.ZipCode != "" && a.Country != ""
}

// CreateFromCart snapshots the cart into an immutable order. Stock is
// re-validated against live products here, not at cart time; the conditional
// decrement inside the repo transaction is the final gate.
func (s *OrderService) CreateFromCart(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	if !completeAddress(req.ShippingAddress) {
		return nil, fmt.Errorf("Please provide complete shipping address: %w", ErrValidation)
	}

	cart, err := s.Repo.GetCartByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, fmt.Errorf("Cart is empty: %w", ErrValidation)
	}

	var orderItems []models.OrderItem
	var itemsPrice float64
	for _, item := range cart.Items {
		product, err := s.Repo.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("Product not found: %w", ErrNotFound)
			}
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("Insufficient stock for %s. Only %d available: %w",
				product.Name, product.Stock, ErrValidation)
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
			Image:     product.FirstImage(),
		})
		itemsPrice += product.Price * float64(item.Quantity)
	}

	itemsPrice = round2(itemsPrice)
	taxPrice, shippingPrice, totalPrice := ComputeTotals(itemsPrice)

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "Stripe"
	}

	order := &models.Order{
		UserID:          userID,
		Items:           orderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
		Status:          models.OrderStatusPending,
	}

	if err := s.Repo.CreateOrderFromCart(ctx, order, cart.ID); err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			return nil, fmt.Errorf("Insufficient stock: %w", ErrValidation)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) MyOrders(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID, offset, limit)
}

func (s *OrderService) AllOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, offset, limit)
}

// ByID enforces ownership: only the order's owner or an admin may read it.
func (s *OrderService) ByID(ctx context.Context, orderID, requesterID uuid.UUID, role string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID && role != models.RoleAdmin {
		return nil, fmt.Errorf("Not authorized to view this order: %w", ErrForbidden)
	}
	return order, nil
}

// MarkPaid transitions the order to paid/Processing exactly once; invoking
// it again for the same order is a no-op.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, result models.PaymentResult) (*models.Order, error) {
	order, _, err := s.Repo.MarkPaid(ctx, orderID, result)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("Order not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("Invalid status: %w", ErrValidation)
	}

	order, err := s.Repo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("Order not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("Order not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

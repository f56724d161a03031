package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.Repo.GetOrCreateCart(ctx, userID)
}

// AddItem merges quantity into an existing line or appends a new one at the
// product's current price. Any mutation refreshes the captured price of the
// touched line.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("Quantity must be at least 1: %w", ErrValidation)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.GetCartItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		newQuantity := item.Quantity + uint(quantity)
		if newQuantity > product.Stock {
			return nil, fmt.Errorf("Cannot add more. Only %d items available: %w", product.Stock, ErrValidation)
		}
		item.Quantity = newQuantity
		item.Price = product.Price
		if err := s.Repo.SaveCartItem(ctx, item); err != nil {
			return nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		if uint(quantity) > product.Stock {
			return nil, fmt.Errorf("Only %d items available in stock: %w", product.Stock, ErrValidation)
		}
		newItem := models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  uint(quantity),
			Price:     product.Price,
		}
		if err := s.Repo.CreateCartItem(ctx, &newItem); err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	return s.Repo.RecalculateTotal(ctx, cart.ID)
}

// UpdateItem overwrites the line's quantity and refreshes its captured price.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("Quantity must be at least 1: %w", ErrValidation)
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.GetCartItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("Item not found in cart: %w", ErrNotFound)
		}
		return nil, err
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if uint(quantity) > product.Stock {
		return nil, fmt.Errorf("Only %d items available in stock: %w", product.Stock, ErrValidation)
	}

	item.Quantity = uint(quantity)
	item.Price = product.Price
	if err := s.Repo.SaveCartItem(ctx, item); err != nil {
		return nil, err
	}
	return s.Repo.RecalculateTotal(ctx, cart.ID)
}

// RemoveItem is idempotent; removing an absent line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.DeleteCartItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.Repo.RecalculateTotal(ctx, cart.ID)
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.ClearCart(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.Repo.RecalculateTotal(ctx, cart.ID)
}

func (s *CartService) loadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("Cart not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("Product not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

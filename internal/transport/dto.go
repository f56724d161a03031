package transport

import (
	"github.com/google/uuid"

	"storefront/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *models.Address `json:"address"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Brand       string   `json:"brand"`
	Stock       uint     `json:"stock"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
}

type UpdateProductRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	Subcategory *string   `json:"subcategory"`
	Brand       *string   `json:"brand"`
	Stock       *uint     `json:"stock"`
	Images      *[]string `json:"images"`
	Tags        *[]string `json:"tags"`
	Featured    *bool     `json:"featured"`
}

type CartItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type CreateOrderRequest struct {
	ShippingAddress models.Address `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type PayOrderRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type CreateIntentRequest struct {
	OrderID uuid.UUID `json:"orderId"`
}

type CreateIntentResponse struct {
	ClientSecret string    `json:"clientSecret"`
	OrderID      uuid.UUID `json:"orderId"`
	Amount       float64   `json:"amount"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"paymentIntentId"`
	OrderID         uuid.UUID `json:"orderId"`
}

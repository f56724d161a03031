package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:customer" json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      Address   `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Categories form a closed set; anything else is rejected on create/update.
var Categories = []string{
	"Electronics", "Clothing", "Books", "Home & Garden",
	"Sports", "Toys", "Beauty", "Other",
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"        json:"id"`
	Name        string    `gorm:"not null"                    json:"name"`
	Description string    `gorm:"not null"                    json:"description"`
	Price       float64   `gorm:"not null;check:price >= 0"   json:"price"`
	Category    string    `gorm:"not null;index"              json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Stock       uint      `gorm:"not null;default:0"          json:"stock"`
	Images      []string  `gorm:"serializer:json"             json:"images"`
	Rating      float64   `gorm:"default:0;check:rating >= 0 AND rating <= 5" json:"rating"`
	NumReviews  uint      `gorm:"default:0"                   json:"num_reviews"`
	Featured    bool      `gorm:"default:false;index"         json:"featured"`
	Tags        []string  `gorm:"serializer:json"             json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Cart struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"   json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice float64    `gorm:"not null;default:0"     json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                        json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"not null;check:quantity > 0" json:"quantity"`
	// Price is captured from the product at mutation time; the order is the
	// final authority, this is what the cart page displays.
	Price float64 `gorm:"not null" json:"price"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentResult is the opaque payload reported by the payment processor,
// stored exactly once when the order is marked paid.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type Order struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey"   json:"id"`
	UserID          uuid.UUID     `gorm:"type:uuid;index;not null" json:"user_id"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	ShippingAddress Address       `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	PaymentMethod   string        `gorm:"not null;default:Stripe" json:"payment_method"`
	ItemsPrice      float64       `gorm:"not null"               json:"items_price"`
	TaxPrice        float64       `gorm:"not null"               json:"tax_price"`
	ShippingPrice   float64       `gorm:"not null"               json:"shipping_price"`
	TotalPrice      float64       `gorm:"not null"               json:"total_price"`
	Status          OrderStatus   `gorm:"not null;default:Pending" json:"status"`
	IsPaid          bool          `gorm:"not null;default:false" json:"is_paid"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
	PaymentResult   PaymentResult `gorm:"embedded;embeddedPrefix:pay_" json:"payment_result"`
	IsDelivered     bool          `gorm:"not null;default:false" json:"is_delivered"`
	DeliveredAt     *time.Time    `json:"delivered_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a snapshot of a cart line at checkout. Name, price and image
// are denormalized so later product edits or deletion do not rewrite history.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"     json:"product_id"`
	Name      string    `gorm:"not null"               json:"name"`
	Quantity  uint      `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64   `gorm:"not null"               json:"price"`
	Image     string    `json:"image"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

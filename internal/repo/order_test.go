package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return New(db)
}

func seedCheckout(t *testing.T, r *GormRepo) (uuid.UUID, *models.Product, *models.Product, *models.Cart) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{
		Name:         "Checkout User",
		Email:        "checkout@example.com",
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, r.DB.WithContext(ctx).Create(user).Error)

	mouse := &models.Product{
		Name:        "mouse",
		Description: "wireless mouse",
		Price:       25,
		Category:    "Electronics",
		Stock:       5,
		Images:      []string{"https://example.com/mouse.jpg"},
	}
	webcam := &models.Product{
		Name:        "webcam",
		Description: "hd webcam",
		Price:       60,
		Category:    "Electronics",
		Stock:       2,
		Images:      []string{"https://example.com/webcam.jpg"},
	}
	require.NoError(t, r.DB.WithContext(ctx).Create(mouse).Error)
	require.NoError(t, r.DB.WithContext(ctx).Create(webcam).Error)

	cart := &models.Cart{
		UserID: user.ID,
		Items: []models.CartItem{
			{ProductID: mouse.ID, Quantity: 2, Price: mouse.Price},
			{ProductID: webcam.ID, Quantity: 1, Price: webcam.Price},
		},
		TotalPrice: 110,
	}
	require.NoError(t, r.DB.WithContext(ctx).Create(cart).Error)

	return user.ID, mouse, webcam, cart
}

func productStock(t *testing.T, r *GormRepo, id uuid.UUID) uint {
	t.Helper()

	var p models.Product
	require.NoError(t, r.DB.Where("id = ?", id).First(&p).Error)
	return p.Stock
}

func TestCreateOrderFromCart_Commits(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	userID, mouse, webcam, cart := seedCheckout(t, r)

	order := &models.Order{
		UserID: userID,
		Items: []models.OrderItem{
			{ProductID: mouse.ID, Name: mouse.Name, Quantity: 2, Price: mouse.Price},
			{ProductID: webcam.ID, Name: webcam.Name, Quantity: 1, Price: webcam.Price},
		},
		PaymentMethod: "Stripe",
		ItemsPrice:    110,
		TaxPrice:      11,
		TotalPrice:    121,
		Status:        models.OrderStatusPending,
	}
	require.NoError(t, r.CreateOrderFromCart(ctx, order, cart.ID))

	require.Equal(t, uint(3), productStock(t, r, mouse.ID))
	require.Equal(t, uint(1), productStock(t, r, webcam.ID))

	saved, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, saved.Items, 2)

	emptied, err := r.GetCartByUser(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, emptied.Items)
	require.Zero(t, emptied.TotalPrice)
}

func TestCreateOrderFromCart_InsufficientStockRollsBack(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	userID, mouse, webcam, cart := seedCheckout(t, r)

	// First line fits, second asks for more than is in stock. The first
	// line's decrement has already run inside the transaction, so the
	// failure must undo it too.
	order := &models.Order{
		UserID: userID,
		Items: []models.OrderItem{
			{ProductID: mouse.ID, Name: mouse.Name, Quantity: 2, Price: mouse.Price},
			{ProductID: webcam.ID, Name: webcam.Name, Quantity: 3, Price: webcam.Price},
		},
		PaymentMethod: "Stripe",
		ItemsPrice:    230,
		TaxPrice:      23,
		TotalPrice:    253,
		Status:        models.OrderStatusPending,
	}
	err := r.CreateOrderFromCart(ctx, order, cart.ID)
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, uint(5), productStock(t, r, mouse.ID))
	require.Equal(t, uint(2), productStock(t, r, webcam.ID))

	var orderCount int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)

	var itemCount int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.Zero(t, itemCount)

	untouched, err := r.GetCartByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, untouched.Items, 2)
	require.Equal(t, 110.0, untouched.TotalPrice)
}

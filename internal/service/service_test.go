package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
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
	return repo.New(db)
}

func seedUser(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price float64, stock uint) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:        name,
		Description: "test product",
		Price:       price,
		Category:    "Electronics",
		Stock:       stock,
		Images:      []string{"https://example.com/" + name + ".jpg"},
	}
	require.NoError(t, r.DB.Create(product).Error)
	return product
}

func testAddress() models.Address {
	return models.Address{
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
		Country: "USA",
	}
}

// fillCart adds the product through the cart service so captured prices and
// totals follow the same path production traffic does.
func fillCart(t *testing.T, svc *CartService, userID, productID uuid.UUID, qty int) *models.Cart {
	t.Helper()

	cart, err := svc.AddItem(context.Background(), userID, productID, qty)
	require.NoError(t, err)
	return cart
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/repo"
	"storefront/internal/transport"
)

func newTestCatalog(t *testing.T) *CatalogService {
	return &CatalogService{Repo: newTestRepo(t), ESIndex: "products"}
}

func TestCatalogService_CreateProduct_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.CreateProductRequest
	}{
		{name: "missing name", req: transport.CreateProductRequest{Description: "d", Price: 1, Category: "Books"}},
		{name: "missing description", req: transport.CreateProductRequest{Name: "n", Price: 1, Category: "Books"}},
		{name: "negative price", req: transport.CreateProductRequest{Name: "n", Description: "d", Price: -1, Category: "Books"}},
		{name: "unknown category", req: transport.CreateProductRequest{Name: "n", Description: "d", Price: 1, Category: "Gadgets"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.CreateProduct(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCatalogService_CreateAndGetProduct(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:        "Go in Practice",
		Description: "hands-on Go",
		Price:       39.99,
		Category:    "Books",
		Brand:       "Manning",
		Stock:       7,
		Tags:        []string{"go", "programming"},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go in Practice", got.Name)
	assert.Equal(t, []string{"go", "programming"}, got.Tags)

	_, err = svc.GetProduct(ctx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_UpdateProduct_PartialPatch(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name: "Lamp", Description: "desk lamp", Price: 25, Category: "Home & Garden", Stock: 4,
	})
	require.NoError(t, err)

	price := 19.99
	updated, err := svc.UpdateProduct(ctx, transport.UpdateProductRequest{Price: &price}, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 19.99, updated.Price, 0.001)
	assert.Equal(t, "Lamp", updated.Name)
	assert.EqualValues(t, 4, updated.Stock)

	bad := "Gadgets"
	_, err = svc.UpdateProduct(ctx, transport.UpdateProductRequest{Category: &bad}, created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name: "Ball", Description: "foot ball", Price: 15, Category: "Sports",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	err = svc.DeleteProduct(ctx, created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_ListProducts_Filters(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t)
	ctx := context.Background()

	seed := []transport.CreateProductRequest{
		{Name: "Phone", Description: "smartphone", Price: 500, Category: "Electronics", Brand: "Acme", Stock: 3},
		{Name: "Laptop", Description: "notebook", Price: 1200, Category: "Electronics", Brand: "Acme", Stock: 0},
		{Name: "Novel", Description: "a long story", Price: 12, Category: "Books", Brand: "Penguin", Stock: 9},
	}
	for _, req := range seed {
		_, err := svc.CreateProduct(ctx, req)
		require.NoError(t, err)
	}

	total, products, err := svc.ListProducts(ctx, repo.ProductFilter{Category: "Electronics"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, products, 2)

	total, _, err = svc.ListProducts(ctx, repo.ProductFilter{Category: "Electronics", InStock: true}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	min := 100.0
	total, _, err = svc.ListProducts(ctx, repo.ProductFilter{MinPrice: &min}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	total, products, err = svc.ListProducts(ctx, repo.ProductFilter{Search: "note"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "Laptop", products[0].Name)

	total, products, err = svc.ListProducts(ctx, repo.ProductFilter{Sort: "price_asc"}, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, products, 2)
	assert.Equal(t, "Novel", products[0].Name)
	assert.Equal(t, "Phone", products[1].Name)
}

func TestCatalogService_CategoriesAndBrands(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t)
	ctx := context.Background()

	for _, req := range []transport.CreateProductRequest{
		{Name: "Phone", Description: "d", Price: 500, Category: "Electronics", Brand: "Acme"},
		{Name: "Novel", Description: "d", Price: 12, Category: "Books", Brand: "Penguin"},
		{Name: "Doll", Description: "d", Price: 20, Category: "Toys"},
	} {
		_, err := svc.CreateProduct(ctx, req)
		require.NoError(t, err)
	}

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Electronics", "Books", "Toys"}, categories)

	brands, err := svc.Brands(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Acme", "Penguin"}, brands)
}

func TestCatalogService_RelatedProducts_SameCategoryOnly(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t)
	ctx := context.Background()

	phone, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name: "Phone", Description: "d", Price: 500, Category: "Electronics",
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name: "Tablet", Description: "d", Price: 300, Category: "Electronics",
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name: "Novel", Description: "d", Price: 12, Category: "Books",
	})
	require.NoError(t, err)

	related, err := svc.RelatedProducts(ctx, phone.ID, 4)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "Tablet", related[0].Name)
}

func TestCatalogService_Search_Unconfigured(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t)

	_, _, err := svc.SearchProducts(context.Background(), "phone", 0, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

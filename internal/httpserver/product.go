package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/logging"
	"storefront/internal/mykafka"
	"storefront/internal/repo"
	"storefront/internal/service"
	"storefront/internal/transport"
	"storefront/internal/util"
)

type ProductHTTP struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
}

func parseFloatParam(c echo.Context, name string) *float64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseBoolParam(c echo.Context, name string) bool {
	return c.QueryParam(name) == "true"
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	filter := repo.ProductFilter{
		Search:      c.QueryParam("search"),
		Category:    c.QueryParam("category"),
		Subcategory: c.QueryParam("subcategory"),
		Brand:       c.QueryParam("brand"),
		MinPrice:    parseFloatParam(c, "minPrice"),
		MaxPrice:    parseFloatParam(c, "maxPrice"),
		MinRating:   parseFloatParam(c, "minRating"),
		Featured:    parseBoolParam(c, "featured"),
		InStock:     parseBoolParam(c, "inStock"),
		Sort:        c.QueryParam("sort"),
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, limit)

	total, products, err := h.Svc.ListProducts(ctx, filter, offset, limit)
	if err != nil {
		return fail(c, l, "list_products", err)
	}

	return okPage(c, products, NewPagination(page, limit, total))
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, l, "get_product", err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(c, l, "get_product", err)
	}

	return okData(c, http.StatusOK, product)
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	query := c.QueryParam("q")
	if query == "" {
		return fail(c, l, "search_products", fmt.Errorf("Search query is required: %w", service.ErrValidation))
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, limit)

	total, products, err := h.Svc.SearchProducts(ctx, query, offset, limit)
	if err != nil {
		return fail(c, l, "search_products", err)
	}

	return okPage(c, products, NewPagination(page, limit, total))
}

func (h *ProductHTTP) Related(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.related")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, l, "related_products", err)
	}

	products, err := h.Svc.RelatedProducts(ctx, id, 4)
	if err != nil {
		return fail(c, l, "related_products", err)
	}

	return okData(c, http.StatusOK, products)
}

func (h *ProductHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.categories")

	categories, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(c, l, "categories", err)
	}

	return okData(c, http.StatusOK, categories)
}

func (h *ProductHTTP) Brands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.brands")

	brands, err := h.Svc.Brands(ctx)
	if err != nil {
		return fail(c, l, "brands", err)
	}

	return okData(c, http.StatusOK, brands)
}

func (h *ProductHTTP) Featured(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.featured")

	limit := util.ParseIntDefault(c.QueryParam("limit"), 8)

	products, err := h.Svc.FeaturedProducts(ctx, limit)
	if err != nil {
		return fail(c, l, "featured_products", err)
	}

	return okData(c, http.StatusOK, products)
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "create_product", err)
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(c, l, "create_product", err)
	}

	if err := h.Svc.SyncSearchIndex(ctx, product); err != nil {
		l.Warn("search_index_error", "product_id", product.ID, "error", err)
	}
	publish(ctx, l, h.Producer, "product_events", product.ID.String(), map[string]any{
		"type": "product_created",
		"id":   product.ID,
		"name": product.Name,
	})

	l.Info("product created", "product_id", product.ID)
	return okMessage(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, l, "update_product", err)
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "update_product", err)
	}

	product, err := h.Svc.UpdateProduct(ctx, req, id)
	if err != nil {
		return fail(c, l, "update_product", err)
	}

	if err := h.Svc.SyncSearchIndex(ctx, product); err != nil {
		l.Warn("search_index_error", "product_id", product.ID, "error", err)
	}
	publish(ctx, l, h.Producer, "product_events", product.ID.String(), map[string]any{
		"type": "product_updated",
		"id":   product.ID,
	})

	l.Info("product updated", "product_id", product.ID)
	return okMessage(c, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, l, "delete_product", err)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(c, l, "delete_product", err)
	}

	if err := h.Svc.RemoveFromSearchIndex(ctx, id); err != nil {
		l.Warn("search_index_error", "product_id", id, "error", err)
	}
	publish(ctx, l, h.Producer, "product_events", id.String(), map[string]any{
		"type": "product_deleted",
		"id":   id,
	})

	l.Info("product deleted", "product_id", id)
	return okMessage(c, http.StatusOK, "Product deleted successfully", nil)
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/logging"
	"storefront/internal/mykafka"
	"storefront/internal/service"
	"storefront/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("get_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(c, l, "get_cart", err)
	}

	return okData(c, http.StatusOK, cart)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("add_to_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "add_to_cart", err)
	}

	cart, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, l, "add_to_cart", err)
	}

	publish(ctx, l, h.Producer, "cart_events", userID.String(), map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	l.Info("item added to cart", "user_id", userID, "product_id", req.ProductID)
	return okMessage(c, http.StatusOK, "Item added to cart", cart)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("update_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "update_cart", err)
	}

	cart, err := h.Svc.UpdateItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, l, "update_cart", err)
	}

	publish(ctx, l, h.Producer, "cart_events", userID.String(), map[string]any{
		"type":       "cart_item_updated",
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	l.Info("cart item updated", "user_id", userID, "product_id", req.ProductID)
	return okMessage(c, http.StatusOK, "Cart updated", cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	productID, err := parseID(c, "productId")
	if err != nil {
		return fail(c, l, "remove_from_cart", err)
	}

	cart, err := h.Svc.RemoveItem(ctx, userID, productID)
	if err != nil {
		return fail(c, l, "remove_from_cart", err)
	}

	publish(ctx, l, h.Producer, "cart_events", userID.String(), map[string]any{
		"type":       "cart_item_removed",
		"user_id":    userID,
		"product_id": productID,
	})

	l.Info("item removed from cart", "user_id", userID, "product_id", productID)
	return okMessage(c, http.StatusOK, "Item removed from cart", cart)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("clear_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	cart, err := h.Svc.ClearCart(ctx, userID)
	if err != nil {
		return fail(c, l, "clear_cart", err)
	}

	publish(ctx, l, h.Producer, "cart_events", userID.String(), map[string]any{
		"type":    "cart_cleared",
		"user_id": userID,
	})

	l.Info("cart cleared", "user_id", userID)
	return okMessage(c, http.StatusOK, "Cart cleared", cart)
}

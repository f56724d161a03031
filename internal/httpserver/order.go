package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/logging"
	"storefront/internal/middleware/auth"
	"storefront/internal/mykafka"
	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/transport"
	"storefront/internal/util"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func roleOf(c echo.Context) string {
	if role, ok := c.Get(auth.CtxRole).(string); ok {
		return role
	}
	return ""
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("create_order_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "create_order", err)
	}

	order, err := h.Svc.CreateFromCart(ctx, userID, req)
	if err != nil {
		return fail(c, l, "create_order", err)
	}

	publish(ctx, l, h.Producer, "order_events", order.ID.String(), map[string]any{
		"type":    "order_created",
		"id":      order.ID,
		"user_id": userID,
		"total":   order.TotalPrice,
	})

	l.Info("order created", "order_id", order.ID, "user_id", userID)
	return okMessage(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.mine")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("my_orders_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), 10)
	offset, limit := util.Calculate(page, limit)

	total, orders, err := h.Svc.MyOrders(ctx, userID, offset, limit)
	if err != nil {
		return fail(c, l, "my_orders", err)
	}

	return okPage(c, orders, NewPagination(page, limit, total))
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), 10)
	offset, limit := util.Calculate(page, limit)

	total, orders, err := h.Svc.AllOrders(ctx, offset, limit)
	if err != nil {
		return fail(c, l, "list_orders", err)
	}

	return okPage(c, orders, NewPagination(page, limit, total))
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("get_order_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	orderID, err := parseID(c, "id")
	if err != nil {
		return fail(c, l, "get_order", err)
	}

	order, err := h.Svc.ByID(ctx, orderID, userID, roleOf(c))
	if err != nil {
		return fail(c, l, "get_order", err)
	}

	return okData(c, http.StatusOK, order)
}

// Pay records an out-of-band payment result against the caller's own order.
func (h *OrderHTTP) Pay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.pay")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("pay_order_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	orderID, err := parseID(c, "id")
	if err != nil {
		return fail(c, l, "pay_order", err)
	}

	// ownership gate; admins may settle any order
	if _, err := h.Svc.ByID(ctx, orderID, userID, roleOf(c)); err != nil {
		return fail(c, l, "pay_order", err)
	}

	var req transport.PayOrderRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "pay_order", err)
	}

	order, err := h.Svc.MarkPaid(ctx, orderID, models.PaymentResult{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.EmailAddress,
	})
	if err != nil {
		return fail(c, l, "pay_order", err)
	}

	publish(ctx, l, h.Producer, "order_events", order.ID.String(), map[string]any{
		"type": "order_paid",
		"id":   order.ID,
	})

	l.Info("order marked paid", "order_id", order.ID)
	return okMessage(c, http.StatusOK, "Order paid successfully", order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.status")

	orderID, err := parseID(c, "id")
	if err != nil {
		return fail(c, l, "update_order_status", err)
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "update_order_status", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		return fail(c, l, "update_order_status", err)
	}

	publish(ctx, l, h.Producer, "order_events", order.ID.String(), map[string]any{
		"type":   "order_status_updated",
		"id":     order.ID,
		"status": order.Status,
	})

	l.Info("order status updated", "order_id", order.ID, "order_status", order.Status)
	return okMessage(c, http.StatusOK, "Order status updated", order)
}

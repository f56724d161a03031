package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/logging"
	"storefront/internal/mykafka"
	"storefront/internal/service"
	"storefront/internal/transport"
)

type PaymentHTTP struct {
	Svc      *service.PaymentService
	Producer *mykafka.Producer
}

// Config exposes the publishable key the frontend needs to mount Stripe
// elements. The secret key never leaves the server.
func (h *PaymentHTTP) Config(c echo.Context) error {
	return okData(c, http.StatusOK, map[string]string{
		"publishableKey": h.Svc.PublishableKey,
	})
}

func (h *PaymentHTTP) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create.intent")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("create_intent_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	var req transport.CreateIntentRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "create_intent", err)
	}

	intent, order, err := h.Svc.CreateIntent(ctx, req.OrderID, userID)
	if err != nil {
		return fail(c, l, "create_intent", err)
	}

	l.Info("payment intent created", "order_id", order.ID, "intent_id", intent.ID)
	return okData(c, http.StatusOK, transport.CreateIntentResponse{
		ClientSecret: intent.ClientSecret,
		OrderID:      order.ID,
		Amount:       order.TotalPrice,
	})
}

func (h *PaymentHTTP) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.confirm")

	userID, err := getUserID(c)
	if err != nil {
		l.Warn("confirm_payment_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized"})
	}

	var req transport.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return failBind(c, l, "confirm_payment", err)
	}

	order, err := h.Svc.ConfirmPayment(ctx, req.PaymentIntentID, req.OrderID, userID)
	if err != nil {
		return fail(c, l, "confirm_payment", err)
	}

	publish(ctx, l, h.Producer, "order_events", order.ID.String(), map[string]any{
		"type": "order_paid",
		"id":   order.ID,
	})

	l.Info("payment confirmed", "order_id", order.ID)
	return okMessage(c, http.StatusOK, "Payment successful", order)
}

// Webhook receives Stripe events. The signature is verified against the raw
// body, so this route must bypass any body-rewriting middleware.
func (h *PaymentHTTP) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.webhook")

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		l.Warn("webhook_read_error", "status", 400, "error", err)
		return c.String(http.StatusBadRequest, "Webhook Error: could not read body")
	}

	if err := h.Svc.HandleWebhook(ctx, payload, c.Request().Header.Get("Stripe-Signature")); err != nil {
		if errors.Is(err, service.ErrWebhookSignature) {
			l.Warn("webhook_signature_error", "status", 400, "error", err)
			return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
		}
		return fail(c, l, "webhook", err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

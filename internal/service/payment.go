package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"

	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/repo"
	"storefront/internal/stripeclient"
)

// ErrWebhookSignature marks a failed webhook signature check; the handler
// renders it as a plain-text 400 per Stripe's contract.
var ErrWebhookSignature = errors.New("webhook signature verification failed")

type PaymentService struct {
	Repo           *repo.GormRepo
	Orders         *OrderService
	Stripe         stripeclient.Client
	PublishableKey string
	WebhookSecret  string
}

// CreateIntent requests a charge for the order's total in minor units. The
// order itself is not mutated; payment state only changes on confirmation.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID, userID uuid.UUID) (*stripe.PaymentIntent, *models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.UserID != userID {
		return nil, nil, fmt.Errorf("Not authorized to access this order: %w", ErrForbidden)
	}
	if order.IsPaid {
		return nil, nil, fmt.Errorf("Order is already paid: %w", ErrValidation)
	}

	amount := int64(math.Round(order.TotalPrice * 100))
	intent, err := s.Stripe.CreateIntent(ctx, amount, "usd", map[string]string{
		"order_id": order.ID.String(),
		"user_id":  userID.String(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create payment intent: %w", err)
	}
	return intent, order, nil
}

// ConfirmPayment re-reads the intent from Stripe and marks the order paid if
// the charge actually succeeded.
func (s *PaymentService) ConfirmPayment(ctx context.Context, intentID string, orderID, userID uuid.UUID) (*models.Order, error) {
	intent, err := s.Stripe.GetIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("Payment not successful: %w", ErrValidation)
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("Not authorized: %w", ErrForbidden)
	}

	email := intent.ReceiptEmail
	if email == "" {
		if user, uerr := s.Repo.GetUserByID(ctx, userID); uerr == nil {
			email = user.Email
		}
	}

	return s.Orders.MarkPaid(ctx, orderID, paymentResultFromIntent(intent, email))
}

// HandleWebhook verifies the event signature against the raw body, then
// reconciles order state. Per Stripe's delivery-retry contract every error
// after verification is logged and swallowed so the endpoint still
// acknowledges receipt.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.WebhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	l := logging.FromContext(ctx).With("svc", "payment.webhook", "event_type", event.Type)

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			l.Error("webhook_decode_error", "error", err)
			return nil
		}
		s.applySucceededIntent(ctx, &intent)

	case stripe.EventTypePaymentIntentPaymentFailed:
		l.Warn("payment_failed", "intent_id", extractIntentID(event.Data.Raw))

	default:
		l.Info("unhandled_event")
	}
	return nil
}

func (s *PaymentService) applySucceededIntent(ctx context.Context, intent *stripe.PaymentIntent) {
	l := logging.FromContext(ctx).With("svc", "payment.webhook", "intent_id", intent.ID)

	orderID, err := uuid.Parse(intent.Metadata["order_id"])
	if err != nil {
		l.Error("webhook_order_id_error", "error", err)
		return
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		l.Error("webhook_order_lookup_error", "order_id", orderID, "error", err)
		return
	}
	if order.IsPaid {
		l.Info("webhook_duplicate_delivery", "order_id", orderID)
		return
	}

	if _, _, err := s.Repo.MarkPaid(ctx, orderID, paymentResultFromIntent(intent, intent.ReceiptEmail)); err != nil {
		l.Error("webhook_mark_paid_error", "order_id", orderID, "error", err)
		return
	}
	l.Info("order_paid_via_webhook", "order_id", orderID)
}

func paymentResultFromIntent(intent *stripe.PaymentIntent, email string) models.PaymentResult {
	return models.PaymentResult{
		ID:           intent.ID,
		Status:       string(intent.Status),
		UpdateTime:   time.Unix(intent.Created, 0).UTC().Format(time.RFC3339),
		EmailAddress: email,
	}
}

func extractIntentID(raw json.RawMessage) string {
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return obj.ID
}

func (s *PaymentService) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("Order not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

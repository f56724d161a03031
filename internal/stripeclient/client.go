package stripeclient

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Client is the slice of the Stripe API the payment service needs. The
// production implementation wraps the official SDK; tests substitute a mock.
type Client interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

type API struct {
	sc *client.API
}

func New(secretKey string) *API {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &API{sc: sc}
}

func (a *API) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	return a.sc.PaymentIntents.New(params)
}

func (a *API) GetIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	return a.sc.PaymentIntents.Get(id, params)
}

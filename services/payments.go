package services

import (
	"os"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// PaymentIntent is the slice of the processor's intent object the server
// cares about. ClientSecret is handed to the client to complete the charge.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
}

// PaymentProcessor abstracts the third-party payment gateway so the booking
// handlers can swap the live client for a stub.
type PaymentProcessor interface {
	CreateIntent(amount int64, currency string) (*PaymentIntent, error)
	UpdateIntent(id string, amount int64) (*PaymentIntent, error)
	RetrieveIntent(id string) (*PaymentIntent, error)
}

// StripeProcessor talks to Stripe's PaymentIntents API.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor() *StripeProcessor {
	api := &client.API{}
	api.Init(os.Getenv("STRIPE_SECRET_KEY"), nil)
	return &StripeProcessor{api: api}
}

func (p *StripeProcessor) CreateIntent(amount int64, currency string) (*PaymentIntent, error) {
	intent, err := p.api.PaymentIntents.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	})
	if err != nil {
		return nil, err
	}
	return fromStripeIntent(intent), nil
}

func (p *StripeProcessor) UpdateIntent(id string, amount int64) (*PaymentIntent, error) {
	intent, err := p.api.PaymentIntents.Update(id, &stripe.PaymentIntentParams{
		Amount: stripe.Int64(amount),
	})
	if err != nil {
		return nil, err
	}
	return fromStripeIntent(intent), nil
}

func (p *StripeProcessor) RetrieveIntent(id string) (*PaymentIntent, error) {
	intent, err := p.api.PaymentIntents.Get(id, nil)
	if err != nil {
		return nil, err
	}
	return fromStripeIntent(intent), nil
}

func fromStripeIntent(intent *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Status:       string(intent.Status),
	}
}

package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/arxeon/arxeon-api/internal/pkg/config"
)

// Provider is the webhook ledger key for Stripe events.
const Provider = "stripe"

var (
	ErrGatewayNotConfigured = errors.New("stripe is not configured")
)

// SessionLineItem is one priced component sent to the gateway. One-time
// components are carried as monthly recurring line items so that mixed
// bundles fit a single subscription-mode checkout.
type SessionLineItem struct {
	Name      string
	Amount    int64
	Recurring bool
	Quantity  int64
}

// SessionRequest describes a checkout session to create at the gateway.
// Metadata is attached to the session itself; SubscriptionMetadata is
// attached to the gateway subscription object so recurring-billing events,
// which do not carry session metadata, can still be correlated.
type SessionRequest struct {
	LineItems            []SessionLineItem
	SuccessURL           string
	CancelURL            string
	CustomerEmail        string
	Metadata             map[string]string
	SubscriptionMetadata map[string]string
}

// SessionResult is the gateway's acceptance of a checkout session.
type SessionResult struct {
	ID  string
	URL string
}

// SessionInfo is the state of an existing checkout session.
type SessionInfo struct {
	ID            string
	PaymentStatus string
	Metadata      map[string]string
}

// Client wraps the Stripe SDK behind the narrow surface the services need.
type Client struct {
	api           *client.API
	secretKey     string
	webhookSecret string
}

// NewClient builds a Stripe client from startup configuration. With an
// empty secret key the client reports ErrGatewayNotConfigured on use.
func NewClient(cfg *config.Config) *Client {
	c := &Client{
		secretKey:     cfg.StripeSecretKey,
		webhookSecret: cfg.StripeWebhookSecret,
	}
	if c.secretKey != "" {
		api := &client.API{}
		api.Init(c.secretKey, nil)
		c.api = api
	}
	return c
}

// Configured reports whether a secret key is present.
func (c *Client) Configured() bool {
	return c.api != nil
}

// CreateCheckoutSession creates a subscription-mode checkout session with
// the given line items and correlation metadata.
func (c *Client) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*SessionResult, error) {
	if c.api == nil {
		return nil, ErrGatewayNotConfigured
	}

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String("chf"),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(li.Name),
			},
			UnitAmount: stripe.Int64(li.Amount),
		}
		if li.Recurring {
			priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
				Interval: stripe.String("month"),
			}
		}
		qty := li.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(qty),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          items,
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		Locale:             stripe.String("it"),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: req.SubscriptionMetadata,
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &SessionResult{ID: sess.ID, URL: sess.URL}, nil
}

// RetrieveSession fetches an existing checkout session by id.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	if c.api == nil {
		return nil, ErrGatewayNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return &SessionInfo{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		Metadata:      sess.Metadata,
	}, nil
}

package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/arxeon/arxeon-api/app/models"
	"github.com/arxeon/arxeon-api/internal/pkg/catalog"
	"github.com/arxeon/arxeon-api/internal/pkg/config"
	"github.com/arxeon/arxeon-api/internal/pkg/payments"
)

// Gateway is the outbound payment-gateway surface the orchestrator needs.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (*payments.SessionResult, error)
}

// CheckoutInput is a requested bundle plus optional customer email.
type CheckoutInput struct {
	PackageCode   string
	AddonCodes    []string
	Category      string
	Platform      string
	CustomerEmail string
}

// CheckoutResult carries the redirect handle back to the client.
type CheckoutResult struct {
	SubscriptionID string
	SessionID      string
	URL            string
}

// CheckoutService turns a validated bundle into a pending local record and
// a gateway checkout session. Exactly one Subscription row is created per
// call; the pending write is never rolled back on gateway failure.
type CheckoutService struct {
	repo        Repository
	catalog     *catalog.Catalog
	gateway     Gateway
	frontendURL string
}

// NewCheckoutService wires the orchestrator from explicit collaborators.
func NewCheckoutService(repo Repository, cat *catalog.Catalog, gateway Gateway, cfg *config.Config) *CheckoutService {
	return &CheckoutService{
		repo:        repo,
		catalog:     cat,
		gateway:     gateway,
		frontendURL: cfg.FrontendURL,
	}
}

// CreateCheckout validates the bundle, persists the pending Subscription
// before any gateway call and returns the gateway redirect handle.
func (s *CheckoutService) CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	bundle, err := s.catalog.ValidateBundle(in.PackageCode, in.AddonCodes, in.Category, in.Platform)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		ID:            uuid.New().String(),
		CustomerEmail: in.CustomerEmail,
		PackageCode:   bundle.Package.Code,
		Category:      bundle.Category,
		Platform:      bundle.Platform,
		AddonCodes:    models.StringList(bundle.AddonCodes),
		Status:        models.SubscriptionStatusPending,
		TotalMonthly:  bundle.TotalMonthly,
		TotalOneTime:  bundle.TotalOneTime,
	}
	if err := s.repo.CreateSubscription(sub); err != nil {
		return nil, fmt.Errorf("persist pending subscription: %w", err)
	}

	// Subscription mode requires recurring price data, so one-time
	// components are carried with a monthly interval inside the same
	// session. Local totals keep the recurring/one-time split.
	items := make([]payments.SessionLineItem, 0, len(bundle.Items))
	for _, li := range bundle.Items {
		items = append(items, payments.SessionLineItem{
			Name:      li.Name,
			Amount:    li.Price,
			Recurring: true,
			Quantity:  1,
		})
	}

	metadata := map[string]string{
		"subscription_id": sub.ID,
		"package":         sub.PackageCode,
	}
	if sub.Category != "" {
		metadata["category"] = sub.Category
	}
	if len(sub.AddonCodes) > 0 {
		metadata["addons"] = strings.Join(sub.AddonCodes, ",")
	}

	result, err := s.gateway.CreateCheckoutSession(ctx, payments.SessionRequest{
		LineItems:     items,
		SuccessURL:    fmt.Sprintf("%s/thank-you?session_id={CHECKOUT_SESSION_ID}&subscription_id=%s", s.frontendURL, sub.ID),
		CancelURL:     fmt.Sprintf("%s/checkout/%s", s.frontendURL, sub.PackageCode),
		CustomerEmail: in.CustomerEmail,
		Metadata:      metadata,
		// Renewal events only carry subscription metadata, never the
		// original session metadata.
		SubscriptionMetadata: metadata,
	})
	if err != nil {
		if uerr := s.repo.UpdateSubscription(sub.ID, map[string]interface{}{
			"status": models.SubscriptionStatusFailed,
		}); uerr != nil {
			log.Errorf("[Checkout] Failed to mark subscription %s as failed: %v", sub.ID, uerr)
		}
		return nil, fmt.Errorf("gateway checkout: %w", err)
	}

	if err := s.repo.UpdateSubscription(sub.ID, map[string]interface{}{
		"stripe_session_id": result.ID,
	}); err != nil {
		log.Errorf("[Checkout] Failed to store session id on subscription %s: %v", sub.ID, err)
	}

	log.Infof("[Checkout] Created session %s for subscription %s (package=%s)", result.ID, sub.ID, sub.PackageCode)
	return &CheckoutResult{
		SubscriptionID: sub.ID,
		SessionID:      result.ID,
		URL:            result.URL,
	}, nil
}

// GetSubscription looks up a subscription by its opaque identity.
func (s *CheckoutService) GetSubscription(id string) (*models.Subscription, error) {
	return s.repo.GetSubscriptionByID(id)
}

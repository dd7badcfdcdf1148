package billing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arxeon/arxeon-api/app/models"
	"github.com/arxeon/arxeon-api/internal/pkg/catalog"
	"github.com/arxeon/arxeon-api/internal/pkg/config"
)

func newCheckoutService(repo *fakeRepository, gw *fakeGateway) *CheckoutService {
	return NewCheckoutService(repo, catalog.Default(), gw, &config.Config{
		FrontendURL: "https://arxeon.ch",
	})
}

func TestCreateCheckout_Success(t *testing.T) {
	repo := newFakeRepository()
	gw := &fakeGateway{}
	svc := newCheckoutService(repo, gw)

	result, err := svc.CreateCheckout(context.Background(), CheckoutInput{
		PackageCode:   catalog.PackageGold,
		AddonCodes:    []string{"seo_setup", "extra_social"},
		CustomerEmail: "cliente@example.ch",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SubscriptionID == "" || result.SessionID == "" || result.URL == "" {
		t.Fatalf("incomplete result: %+v", result)
	}

	if len(repo.subs) != 1 {
		t.Fatalf("got %d subscription rows, want 1", len(repo.subs))
	}
	sub, err := repo.GetSubscriptionByID(result.SubscriptionID)
	if err != nil {
		t.Fatalf("subscription not stored: %v", err)
	}
	if sub.Status != models.SubscriptionStatusPending {
		t.Fatalf("status = %q, want pending", sub.Status)
	}
	if sub.StripeSessionID != result.SessionID {
		t.Fatalf("session id not stored: %q", sub.StripeSessionID)
	}
	if sub.TotalMonthly != 249000+29000 || sub.TotalOneTime != 89000 {
		t.Fatalf("totals wrong: monthly=%d oneTime=%d", sub.TotalMonthly, sub.TotalOneTime)
	}

	req := gw.requests[0]
	if len(req.LineItems) != 3 {
		t.Fatalf("got %d line items, want 3", len(req.LineItems))
	}
	for _, li := range req.LineItems {
		if !li.Recurring {
			t.Fatalf("line item %q not recurring; one-time components must ride the subscription", li.Name)
		}
	}
	if req.Metadata["subscription_id"] != result.SubscriptionID {
		t.Fatalf("session metadata missing subscription_id: %+v", req.Metadata)
	}
	if req.SubscriptionMetadata["subscription_id"] != result.SubscriptionID {
		t.Fatalf("subscription metadata missing subscription_id: %+v", req.SubscriptionMetadata)
	}
	if !strings.Contains(req.SuccessURL, result.SubscriptionID) {
		t.Fatalf("success URL missing subscription id: %q", req.SuccessURL)
	}
}

func TestCreateCheckout_PendingRowPrecedesGateway(t *testing.T) {
	repo := newFakeRepository()
	gw := &fakeGateway{}
	gw.onCreate = func() {
		if len(repo.subs) != 1 {
			t.Fatalf("gateway called before pending subscription was stored")
		}
		for _, sub := range repo.subs {
			if sub.Status != models.SubscriptionStatusPending {
				t.Fatalf("subscription status at gateway call = %q, want pending", sub.Status)
			}
		}
	}
	svc := newCheckoutService(repo, gw)

	if _, err := svc.CreateCheckout(context.Background(), CheckoutInput{PackageCode: catalog.PackageBasic}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateCheckout_GatewayFailureMarksFailed(t *testing.T) {
	repo := newFakeRepository()
	gw := &fakeGateway{err: errors.New("card network down")}
	svc := newCheckoutService(repo, gw)

	_, err := svc.CreateCheckout(context.Background(), CheckoutInput{PackageCode: catalog.PackageBasic})
	if err == nil {
		t.Fatalf("expected gateway error")
	}

	// The pending row is kept, marked failed, never rolled back.
	if len(repo.subs) != 1 {
		t.Fatalf("got %d subscription rows, want 1", len(repo.subs))
	}
	for _, sub := range repo.subs {
		if sub.Status != models.SubscriptionStatusFailed {
			t.Fatalf("status = %q, want failed", sub.Status)
		}
	}
}

func TestCreateCheckout_InvalidBundleCreatesNothing(t *testing.T) {
	repo := newFakeRepository()
	gw := &fakeGateway{}
	svc := newCheckoutService(repo, gw)

	_, err := svc.CreateCheckout(context.Background(), CheckoutInput{
		PackageCode: catalog.PackageBasic,
		AddonCodes:  []string{"seo_setup"},
	})
	if !errors.Is(err, catalog.ErrAddonNotAllowed) {
		t.Fatalf("err = %v, want ErrAddonNotAllowed", err)
	}
	if len(repo.subs) != 0 {
		t.Fatalf("invalid bundle must not create rows, got %d", len(repo.subs))
	}
	if len(gw.requests) != 0 {
		t.Fatalf("invalid bundle must not reach the gateway")
	}
}

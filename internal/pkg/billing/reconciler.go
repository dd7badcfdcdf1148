package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/arxeon/arxeon-api/app/models"
	"github.com/arxeon/arxeon-api/internal/pkg/catalog"
	"github.com/arxeon/arxeon-api/internal/pkg/mail"
	"github.com/arxeon/arxeon-api/internal/pkg/payments"
)

// Mailer is the outbound notification surface the reconciler needs. Send
// failures are logged and swallowed, never surfaced to the webhook sender.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// Outcome describes how an authentic event was handled.
type Outcome struct {
	Duplicate bool
	Ignored   bool
}

// Reconciler is the single authority over subscription lifecycle
// transitions. It is driven by verified gateway events and records every
// delivery in the webhook ledger, so re-deliveries of an already applied
// event are acknowledged without repeating side effects while retries of
// a failed apply run the transition again.
type Reconciler struct {
	repo    Repository
	catalog *catalog.Catalog
	mailer  Mailer
}

// NewReconciler wires the webhook reconciler from explicit collaborators.
func NewReconciler(repo Repository, cat *catalog.Catalog, mailer Mailer) *Reconciler {
	return &Reconciler{repo: repo, catalog: cat, mailer: mailer}
}

// Process applies a verified gateway event to local state. Unknown event
// types and unmatched correlation ids are accepted as no-ops so the sender
// does not retry harmless deliveries forever.
func (r *Reconciler) Process(ctx context.Context, ev *payments.Event, rawPayload []byte) (*Outcome, error) {
	eventID := ev.ID
	if eventID == "" {
		sum := sha256.Sum256(rawPayload)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	created, stored, err := r.repo.CreateWebhookEventIfNotExists(&models.WebhookEvent{
		Provider:        payments.Provider,
		ProviderEventID: eventID,
		EventType:       string(ev.Type),
		PayloadJSON:     string(rawPayload),
		SignatureValid:  true,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		// Only a successfully applied event is a true duplicate. A ledger
		// row whose apply failed means the sender is retrying after our
		// 500, so the transition must run again.
		if stored.ProcessedAt != nil && stored.ProcessingError == "" {
			log.Infof("[Reconciler] Duplicate delivery of event %s (%s), skipping", eventID, ev.Type)
			return &Outcome{Duplicate: true}, nil
		}
		log.Warnf("[Reconciler] Redelivery of unapplied event %s (%s), reprocessing", eventID, ev.Type)
	}

	outcome, procErr := r.apply(ctx, ev)
	errMsg := ""
	if procErr != nil {
		errMsg = procErr.Error()
	}
	if merr := r.repo.MarkWebhookProcessed(stored.ID, errMsg); merr != nil {
		log.Errorf("[Reconciler] Failed to mark event %s processed: %v", eventID, merr)
	}
	return outcome, procErr
}

func (r *Reconciler) apply(ctx context.Context, ev *payments.Event) (*Outcome, error) {
	_ = ctx
	switch {
	case ev.CheckoutCompleted != nil:
		return r.applyCheckoutCompleted(ev.CheckoutCompleted)
	case ev.InvoicePaid != nil:
		return r.applyInvoicePaid(ev.InvoicePaid)
	case ev.SubscriptionDeleted != nil:
		return r.applySubscriptionDeleted(ev.SubscriptionDeleted)
	default:
		log.Infof("[Reconciler] Ignoring event type %s", ev.Type)
		return &Outcome{Ignored: true}, nil
	}
}

func (r *Reconciler) applyCheckoutCompleted(data *payments.CheckoutCompletedData) (*Outcome, error) {
	subID := data.Metadata["subscription_id"]
	if subID == "" {
		log.Warn("[Reconciler] checkout completed without subscription_id metadata, ignoring")
		return &Outcome{Ignored: true}, nil
	}

	sub, err := r.repo.GetSubscriptionByID(subID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Reconciler] checkout completed for unknown subscription %s, ignoring", subID)
			return &Outcome{Ignored: true}, nil
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"status":                 models.SubscriptionStatusActive,
		"stripe_customer_id":     data.CustomerID,
		"stripe_subscription_id": data.SubscriptionID,
	}
	if sub.CustomerEmail == "" && data.CustomerEmail != "" {
		updates["customer_email"] = data.CustomerEmail
		sub.CustomerEmail = data.CustomerEmail
	}
	if err := r.repo.UpdateSubscription(sub.ID, updates); err != nil {
		return nil, err
	}
	log.Infof("[Reconciler] Subscription %s activated", sub.ID)

	if sub.CustomerEmail != "" {
		body := mail.RenderOrderConfirmation(r.orderSummary(sub))
		if err := r.mailer.Send(sub.CustomerEmail, "Conferma ordine Arxéon - Il tuo servizio è attivo", body); err != nil {
			log.Errorf("[Reconciler] Failed to send confirmation email for %s: %v", sub.ID, err)
		}
	}
	return &Outcome{}, nil
}

func (r *Reconciler) applyInvoicePaid(data *payments.InvoicePaidData) (*Outcome, error) {
	if data.SubscriptionID == "" {
		return &Outcome{Ignored: true}, nil
	}

	sub, err := r.repo.GetSubscriptionByGatewaySubscriptionID(data.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Reconciler] invoice paid for unknown gateway subscription %s, ignoring", data.SubscriptionID)
			return &Outcome{Ignored: true}, nil
		}
		return nil, err
	}

	if sub.CustomerEmail != "" {
		pkgName := sub.PackageCode
		if pkg, ok := r.catalog.Package(sub.PackageCode); ok {
			pkgName = pkg.Name
		}
		body := mail.RenderPaymentReceipt(data.AmountPaid, pkgName)
		if err := r.mailer.Send(sub.CustomerEmail, "Ricevuta pagamento Arxéon", body); err != nil {
			log.Errorf("[Reconciler] Failed to send receipt email for %s: %v", sub.ID, err)
		}
	}
	return &Outcome{}, nil
}

func (r *Reconciler) applySubscriptionDeleted(data *payments.SubscriptionDeletedData) (*Outcome, error) {
	if data.SubscriptionID == "" {
		return &Outcome{Ignored: true}, nil
	}

	sub, err := r.repo.GetSubscriptionByGatewaySubscriptionID(data.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Reconciler] cancellation for unknown gateway subscription %s, ignoring", data.SubscriptionID)
			return &Outcome{Ignored: true}, nil
		}
		return nil, err
	}

	if err := r.repo.UpdateSubscription(sub.ID, map[string]interface{}{
		"status": models.SubscriptionStatusCancelled,
	}); err != nil {
		return nil, err
	}
	log.Infof("[Reconciler] Subscription %s cancelled", sub.ID)
	return &Outcome{}, nil
}

func (r *Reconciler) orderSummary(sub *models.Subscription) mail.OrderSummary {
	summary := mail.OrderSummary{
		PackageCode:  sub.PackageCode,
		TotalMonthly: sub.TotalMonthly,
		TotalOneTime: sub.TotalOneTime,
	}
	if pkg, ok := r.catalog.Package(sub.PackageCode); ok {
		summary.PackageName = pkg.Name
		summary.Lines = append(summary.Lines, mail.OrderLine{
			Name: pkg.Name, Price: pkg.MonthlyPrice, Recurring: true,
		})
	}
	for _, code := range sub.AddonCodes {
		addon, ok := r.catalog.Addon(code)
		if !ok {
			continue
		}
		summary.Lines = append(summary.Lines, mail.OrderLine{
			Name:      addon.Name,
			Price:     addon.Price,
			Recurring: addon.BillingType == catalog.BillingRecurring,
		})
	}
	return summary
}

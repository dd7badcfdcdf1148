package payments

import (
	"errors"
	"testing"

	"github.com/arxeon/arxeon-api/internal/pkg/config"
)

func newUnverifiedClient() *Client {
	// No webhook secret: payloads are decoded without signature checks.
	return NewClient(&config.Config{})
}

func TestVerifyAndParseEvent_CheckoutCompleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_123",
			"customer": "cus_9",
			"subscription": "sub_7",
			"customer_details": {"email": "cliente@example.ch"},
			"metadata": {"subscription_id": "local-1", "package": "gold"}
		}}
	}`)

	ev, err := newUnverifiedClient().VerifyAndParseEvent(payload, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.ID != "evt_1" || ev.Type != EventCheckoutCompleted {
		t.Fatalf("envelope decoded wrong: id=%q type=%q", ev.ID, ev.Type)
	}
	data := ev.CheckoutCompleted
	if data == nil {
		t.Fatalf("CheckoutCompleted variant not set")
	}
	if ev.InvoicePaid != nil || ev.SubscriptionDeleted != nil {
		t.Fatalf("more than one variant set")
	}
	if data.SessionID != "cs_test_123" || data.CustomerID != "cus_9" || data.SubscriptionID != "sub_7" {
		t.Fatalf("object decoded wrong: %+v", data)
	}
	if data.CustomerEmail != "cliente@example.ch" {
		t.Fatalf("customer_details email not used: %q", data.CustomerEmail)
	}
	if data.Metadata["subscription_id"] != "local-1" {
		t.Fatalf("metadata lost: %+v", data.Metadata)
	}
}

func TestVerifyAndParseEvent_InvoicePaid(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"type": "invoice.payment_succeeded",
		"data": {"object": {"subscription": "sub_7", "amount_paid": 14900}}
	}`)

	ev, err := newUnverifiedClient().VerifyAndParseEvent(payload, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.InvoicePaid == nil {
		t.Fatalf("InvoicePaid variant not set")
	}
	if ev.InvoicePaid.SubscriptionID != "sub_7" || ev.InvoicePaid.AmountPaid != 14900 {
		t.Fatalf("object decoded wrong: %+v", ev.InvoicePaid)
	}
}

func TestVerifyAndParseEvent_SubscriptionDeleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_3",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_7"}}
	}`)

	ev, err := newUnverifiedClient().VerifyAndParseEvent(payload, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.SubscriptionDeleted == nil || ev.SubscriptionDeleted.SubscriptionID != "sub_7" {
		t.Fatalf("SubscriptionDeleted decoded wrong: %+v", ev.SubscriptionDeleted)
	}
}

func TestVerifyAndParseEvent_UnknownTypeIsOpaque(t *testing.T) {
	payload := []byte(`{"id": "evt_4", "type": "charge.refunded", "data": {"object": {}}}`)

	ev, err := newUnverifiedClient().VerifyAndParseEvent(payload, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ev.Opaque() {
		t.Fatalf("expected unknown type to be opaque")
	}
	if ev.Type != "charge.refunded" {
		t.Fatalf("type not preserved: %q", ev.Type)
	}
}

func TestVerifyAndParseEvent_InvalidPayload(t *testing.T) {
	_, err := newUnverifiedClient().VerifyAndParseEvent([]byte(`{not json`), "")
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}

func TestVerifyAndParseEvent_InvalidSignature(t *testing.T) {
	c := NewClient(&config.Config{StripeWebhookSecret: "whsec_test"})

	_, err := c.VerifyAndParseEvent([]byte(`{"id":"evt_5","type":"checkout.session.completed"}`), "t=1,v1=bad")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

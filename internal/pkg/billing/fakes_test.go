package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/arxeon/arxeon-api/app/models"
	"github.com/arxeon/arxeon-api/internal/pkg/payments"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	mu          sync.Mutex
	subs        map[string]*models.Subscription
	events      map[string]*models.WebhookEvent
	nextEventID uint
	createErr   error
	updateErr   error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		subs:   make(map[string]*models.Subscription),
		events: make(map[string]*models.WebhookEvent),
	}
}

func (f *fakeRepository) CreateSubscription(sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *sub
	f.subs[sub.ID] = &cp
	return nil
}

func (f *fakeRepository) GetSubscriptionByID(id string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeRepository) GetSubscriptionByGatewaySubscriptionID(gatewaySubID string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if sub.StripeSubscriptionID == gatewaySubID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpdateSubscription(id string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	sub, ok := f.subs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			sub.Status = v.(string)
		case "stripe_session_id":
			sub.StripeSessionID = v.(string)
		case "stripe_customer_id":
			sub.StripeCustomerID = v.(string)
		case "stripe_subscription_id":
			sub.StripeSubscriptionID = v.(string)
		case "customer_email":
			sub.CustomerEmail = v.(string)
		}
	}
	return nil
}

func (f *fakeRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := event.Provider + "/" + event.ProviderEventID
	if existing, ok := f.events[key]; ok {
		cp := *existing
		return false, &cp, nil
	}
	f.nextEventID++
	event.ID = f.nextEventID
	cp := *event
	f.events[key] = &cp
	return true, event, nil
}

func (f *fakeRepository) MarkWebhookProcessed(id uint, processingError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events {
		if ev.ID == id {
			now := time.Now()
			ev.ProcessedAt = &now
			ev.ProcessingError = processingError
		}
	}
	return nil
}

// fakeGateway records session requests and can observe repository state at
// call time.
type fakeGateway struct {
	requests []payments.SessionRequest
	result   *payments.SessionResult
	err      error
	onCreate func()
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (*payments.SessionResult, error) {
	f.requests = append(f.requests, req)
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &payments.SessionResult{
		ID:  fmt.Sprintf("cs_test_%d", len(f.requests)),
		URL: "https://checkout.stripe.test/session",
	}, nil
}

// fakeMailer records outbound notifications.
type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return f.err
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusFailed    = "failed"
)

// StringList stores an ordered list of codes as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Subscription is the local record of a customer bundle. It is created in
// pending state by the checkout orchestrator before the gateway is contacted
// and mutated only by the webhook reconciler afterwards. Rows are never
// deleted; failed attempts stay as an audit trail.
type Subscription struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerEmail string     `gorm:"type:varchar(191);index" json:"customer_email,omitempty"`
	PackageCode   string     `gorm:"type:varchar(50);not null;index" json:"package"`
	Category      string     `gorm:"type:varchar(50)" json:"category,omitempty"`
	Platform      string     `gorm:"type:varchar(50)" json:"platform,omitempty"`
	AddonCodes    StringList `gorm:"type:text" json:"addons"`

	StripeCustomerID     string `gorm:"type:varchar(191);index" json:"stripe_customer_id,omitempty"`
	StripeSessionID      string `gorm:"type:varchar(191);index" json:"stripe_session_id,omitempty"`
	StripeSubscriptionID string `gorm:"type:varchar(191);index" json:"stripe_subscription_id,omitempty"`

	Status       string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalMonthly int64  `gorm:"not null" json:"total_monthly"`
	TotalOneTime int64  `gorm:"not null" json:"total_one_time"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

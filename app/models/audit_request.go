package models

import "time"

const (
	AuditStatusPending   = "pending"
	AuditStatusCompleted = "completed"
	AuditStatusError     = "error"
)

const (
	MaturityLevelBasic    = "Basso"
	MaturityLevelMedium   = "Medio"
	MaturityLevelAdvanced = "Avanzato"
)

// AuditRequest is a lead-qualification submission plus the evaluation the
// background pipeline produces for it. The pipeline owns the full lifecycle:
// pending on intake, then completed (evaluation populated) or error
// (detail captured). Terminal states are never re-entered.
type AuditRequest struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName string `gorm:"type:varchar(191);not null" json:"full_name"`
	Email    string `gorm:"type:varchar(191);not null;index" json:"email"`
	Company  string `gorm:"type:varchar(191);not null" json:"company"`
	Website  string `gorm:"type:varchar(255)" json:"website,omitempty"`
	// OrderID links the submission to the subscription it came with, when any.
	OrderID string `gorm:"type:varchar(36);index" json:"order_id,omitempty"`

	SocialPlatforms StringList `gorm:"type:text" json:"social_platforms"`
	SocialLinks     string     `gorm:"type:text" json:"social_links,omitempty"`
	HasGMB          bool       `gorm:"default:false" json:"has_gmb"`
	GMBLink         string     `gorm:"type:varchar(255)" json:"gmb_link,omitempty"`
	AdsPlatforms    StringList `gorm:"type:text" json:"ads_platforms"`
	MainObjective   string     `gorm:"type:varchar(191);not null" json:"main_objective"`
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`

	Status         string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Evaluation     string `gorm:"type:longtext" json:"evaluation,omitempty"`
	Score          int    `gorm:"default:0" json:"score"`
	MaturityLevel  string `gorm:"type:varchar(20)" json:"maturity_level,omitempty"`
	ErrorDetail    string `gorm:"type:text" json:"error_detail,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt *time.Time `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
}

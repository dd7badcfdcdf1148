package models

import "time"

// StatusCheck is a simple liveness record written by monitoring clients.
type StatusCheck struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ClientName string    `gorm:"type:varchar(191);not null" json:"client_name"`
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

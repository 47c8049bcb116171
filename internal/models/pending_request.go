package models

import "time"

// PendingRequest is an add/delete proposal waiting for an admin decision.
// Resolving it removes the row; no history of decisions is kept.
type PendingRequest struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	GroupName   string    `gorm:"size:128;not null;uniqueIndex:idx_request_key,priority:1"`
	TargetTime  time.Time `gorm:"not null;index;uniqueIndex:idx_request_key,priority:2"`
	Action      Action    `gorm:"size:16;not null;uniqueIndex:idx_request_key,priority:3"`
	RequestedBy int64     `gorm:"index"`
	Source      Source    `gorm:"size:16;not null;default:'bot'"`
	CreatedAt   time.Time
}

func (PendingRequest) TableName() string {
	return "requests"
}

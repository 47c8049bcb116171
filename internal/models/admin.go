package models

import "time"

// Admin is a privileged user. ID is the Telegram user id, not a surrogate key.
type Admin struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	IsPrimary bool  `gorm:"not null;default:false;index"`
	CreatedAt time.Time
}

func (Admin) TableName() string {
	return "admins"
}

package models

import "time"

// ScheduleEntry is a committed rehearsal slot.
type ScheduleEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	GroupName string    `gorm:"size:128;not null;uniqueIndex:idx_entry_group_time,priority:1"`
	StartTime time.Time `gorm:"not null;index;uniqueIndex:idx_entry_group_time,priority:2"`
	CreatedAt time.Time
}

func (ScheduleEntry) TableName() string {
	return "entries"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

const (
	DefaultPreAlert      = 15 // minutes
	DefaultReminderColor = "#ff6b6b"
)

type Reminder struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Datetime    time.Time  `json:"datetime" gorm:"index;not null"`
	PreAlert    int        `json:"preAlert" gorm:"not null"`
	Color       string     `json:"color" gorm:"not null"`
	Recurring   Recurrence `json:"recurring" gorm:"not null;default:'none'"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	if r.Color == "" {
		r.Color = DefaultReminderColor
	}
	if r.Recurring == "" {
		r.Recurring = RecurrenceNone
	}
	return nil
}

// AlertAt is the instant the pre-alert fires.
func (r *Reminder) AlertAt() time.Time {
	return r.Datetime.Add(-time.Duration(r.PreAlert) * time.Minute)
}

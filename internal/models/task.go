package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultTaskIcon = "fas fa-circle"

type Task struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index:idx_tasks_user_order,priority:1"`
	Text      string    `json:"text" gorm:"not null"`
	Time      string    `json:"time" gorm:"not null;default:''"`
	Icon      string    `json:"icon" gorm:"not null"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	// "order" is reserved in SQL.
	Order     int       `json:"order" gorm:"column:sort_order;not null;default:0;index:idx_tasks_user_order,priority:2"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	if t.Icon == "" {
		t.Icon = DefaultTaskIcon
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodAnxious Mood = "anxious"
	MoodCalm    Mood = "calm"
	MoodExcited Mood = "excited"
	MoodTired   Mood = "tired"
	MoodNeutral Mood = "neutral"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodAngry, MoodAnxious, MoodCalm, MoodExcited, MoodTired, MoodNeutral:
		return true
	}
	return false
}

type DiaryEntry struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Content      string    `json:"content" gorm:"type:text;not null"`
	Mood         Mood      `json:"mood" gorm:"not null;default:'neutral'"`
	Tags         []string  `json:"tags" gorm:"type:text;serializer:json"`
	VoiceFileURL string    `json:"voiceFileUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index;autoCreateTime"`
}

func (d *DiaryEntry) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	if d.Mood == "" {
		d.Mood = MoodNeutral
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return nil
}

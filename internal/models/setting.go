package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"

	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

var (
	DateFormats = []string{"MM/DD/YYYY", "DD/MM/YYYY", "YYYY-MM-DD"}
	TimeFormats = []string{"12h", "24h"}
)

type NotificationSettings struct {
	Email     bool `json:"email"`
	Push      bool `json:"push"`
	Reminders bool `json:"reminders"`
}

type PrivacySettings struct {
	ProfileVisibility string `json:"profileVisibility"`
	DataSharing       bool   `json:"dataSharing"`
}

type Preferences struct {
	Language   string `json:"language"`
	Timezone   string `json:"timezone"`
	DateFormat string `json:"dateFormat"`
	TimeFormat string `json:"timeFormat"`
}

// Setting is the single per-user settings document.
type Setting struct {
	ID            uuid.UUID            `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID            `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	Theme         string               `json:"theme" gorm:"not null"`
	Notifications NotificationSettings `json:"notifications" gorm:"embedded;embeddedPrefix:notify_"`
	Privacy       PrivacySettings      `json:"privacy" gorm:"embedded;embeddedPrefix:privacy_"`
	Preferences   Preferences          `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`
	CreatedAt     time.Time            `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time            `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// DefaultSetting returns the record created on first access.
func DefaultSetting(userID uuid.UUID) Setting {
	return Setting{
		UserID: userID,
		Theme:  ThemeLight,
		Notifications: NotificationSettings{
			Email:     true,
			Push:      true,
			Reminders: true,
		},
		Privacy: PrivacySettings{
			ProfileVisibility: VisibilityPrivate,
			DataSharing:       false,
		},
		Preferences: Preferences{
			Language:   "en",
			Timezone:   "UTC",
			DateFormat: DateFormats[0],
			TimeFormat: TimeFormats[0],
		},
	}
}

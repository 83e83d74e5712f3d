package repositories

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
	"gorm.io/gorm"
)

type NotificationPatch struct {
	Email     *bool `json:"email"`
	Push      *bool `json:"push"`
	Reminders *bool `json:"reminders"`
}

type PrivacyPatch struct {
	ProfileVisibility *string `json:"profileVisibility"`
	DataSharing       *bool   `json:"dataSharing"`
}

type PreferencesPatch struct {
	Language   *string `json:"language"`
	Timezone   *string `json:"timezone"`
	DateFormat *string `json:"dateFormat"`
	TimeFormat *string `json:"timeFormat"`
}

// SettingPatch merges into the stored settings group by group.
type SettingPatch struct {
	Theme         *string            `json:"theme"`
	Notifications *NotificationPatch `json:"notifications"`
	Privacy       *PrivacyPatch      `json:"privacy"`
	Preferences   *PreferencesPatch  `json:"preferences"`
}

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetOrCreateDefault returns the owner's settings, creating the defaults on
// first access. The unique index on user_id keeps it to one record; losing
// a creation race just re-reads the winner.
func (r *SettingRepository) GetOrCreateDefault(ctx context.Context, owner uuid.UUID) (*models.Setting, error) {
	setting, err := r.find(ctx, owner)
	if err == nil {
		return setting, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	created := models.DefaultSetting(owner)
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		if IsDuplicateKey(err) {
			if setting, err := r.find(ctx, owner); err == nil {
				return setting, nil
			}
		}
		return nil, fmt.Errorf("create default settings: %w", err)
	}
	return &created, nil
}

func (r *SettingRepository) find(ctx context.Context, owner uuid.UUID) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("user_id = ?", owner).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert applies patch on top of the existing or default settings.
func (r *SettingRepository) Upsert(ctx context.Context, owner uuid.UUID, patch SettingPatch) (*models.Setting, error) {
	setting, err := r.GetOrCreateDefault(ctx, owner)
	if err != nil {
		return nil, err
	}

	next := *setting
	patch.applyTo(&next)
	if err := validateSetting(&next); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Save(&next).Error; err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return &next, nil
}

func (p SettingPatch) applyTo(s *models.Setting) {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if n := p.Notifications; n != nil {
		setIf(&s.Notifications.Email, n.Email)
		setIf(&s.Notifications.Push, n.Push)
		setIf(&s.Notifications.Reminders, n.Reminders)
	}
	if pr := p.Privacy; pr != nil {
		setIf(&s.Privacy.ProfileVisibility, pr.ProfileVisibility)
		setIf(&s.Privacy.DataSharing, pr.DataSharing)
	}
	if pf := p.Preferences; pf != nil {
		setIf(&s.Preferences.Language, pf.Language)
		setIf(&s.Preferences.Timezone, pf.Timezone)
		setIf(&s.Preferences.DateFormat, pf.DateFormat)
		setIf(&s.Preferences.TimeFormat, pf.TimeFormat)
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func validateSetting(s *models.Setting) error {
	switch s.Theme {
	case models.ThemeLight, models.ThemeDark, models.ThemeAuto:
	default:
		return apperr.ValidationField("theme", "Invalid theme")
	}
	switch s.Privacy.ProfileVisibility {
	case models.VisibilityPublic, models.VisibilityPrivate:
	default:
		return apperr.ValidationField("privacy.profileVisibility", "Invalid profile visibility")
	}
	if strings.TrimSpace(s.Preferences.Language) == "" {
		return apperr.ValidationField("preferences.language", "Language is required")
	}
	if _, err := time.LoadLocation(s.Preferences.Timezone); err != nil || s.Preferences.Timezone == "" {
		return apperr.ValidationField("preferences.timezone", "Invalid timezone")
	}
	if !slices.Contains(models.DateFormats, s.Preferences.DateFormat) {
		return apperr.ValidationField("preferences.dateFormat", "Invalid date format")
	}
	if !slices.Contains(models.TimeFormats, s.Preferences.TimeFormat) {
		return apperr.ValidationField("preferences.timeFormat", "Invalid time format")
	}
	return nil
}

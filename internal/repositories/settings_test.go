package repositories_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
	"github.com/rohits-web03/innerself/internal/repositories"
	"github.com/rohits-web03/innerself/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsGetOrCreateDefault_Idempotent(t *testing.T) {
	db := testkit.NewDB(t)
	repo := repositories.NewSettingRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	first, err := repo.GetOrCreateDefault(ctx, owner)
	require.NoError(t, err)
	second, err := repo.GetOrCreateDefault(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.ThemeLight, second.Theme)
	assert.True(t, second.Notifications.Reminders)
	assert.Equal(t, models.VisibilityPrivate, second.Privacy.ProfileVisibility)
	assert.Equal(t, "UTC", second.Preferences.Timezone)

	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Where("user_id = ?", owner).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSettingsUpsert_MergesGroups(t *testing.T) {
	repo := repositories.NewSettingRepository(testkit.NewDB(t))
	ctx := context.Background()
	owner := uuid.New()

	updated, err := repo.Upsert(ctx, owner, repositories.SettingPatch{
		Theme:         testkit.Ptr(models.ThemeDark),
		Notifications: &repositories.NotificationPatch{Push: testkit.Ptr(false)},
		Preferences:   &repositories.PreferencesPatch{Timezone: testkit.Ptr("Europe/Berlin")},
	})
	require.NoError(t, err)

	stored, err := repo.GetOrCreateDefault(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, stored.ID)
	assert.Equal(t, models.ThemeDark, stored.Theme)
	assert.False(t, stored.Notifications.Push)
	assert.True(t, stored.Notifications.Email)
	assert.True(t, stored.Notifications.Reminders)
	assert.Equal(t, "Europe/Berlin", stored.Preferences.Timezone)
	assert.Equal(t, "en", stored.Preferences.Language)
	assert.Equal(t, models.VisibilityPrivate, stored.Privacy.ProfileVisibility)
}

func TestSettingsUpsert_Validation(t *testing.T) {
	repo := repositories.NewSettingRepository(testkit.NewDB(t))
	ctx := context.Background()
	owner := uuid.New()

	cases := map[string]repositories.SettingPatch{
		"theme":      {Theme: testkit.Ptr("neon")},
		"visibility": {Privacy: &repositories.PrivacyPatch{ProfileVisibility: testkit.Ptr("friends")}},
		"timezone":   {Preferences: &repositories.PreferencesPatch{Timezone: testkit.Ptr("Mars/Olympus")}},
		"dateFormat": {Preferences: &repositories.PreferencesPatch{DateFormat: testkit.Ptr("YY.MM.DD")}},
		"timeFormat": {Preferences: &repositories.PreferencesPatch{TimeFormat: testkit.Ptr("36h")}},
		"language":   {Preferences: &repositories.PreferencesPatch{Language: testkit.Ptr(" ")}},
	}
	for name, patch := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Upsert(ctx, owner, patch)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	stored, err := repo.GetOrCreateDefault(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, stored.Theme)
}

package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
	"github.com/rohits-web03/innerself/internal/repositories"
	"github.com/rohits-web03/innerself/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiaryCreate_DefaultsAndValidation(t *testing.T) {
	repo := repositories.NewDiaryRepository(testkit.NewDB(t))
	ctx := context.Background()
	owner := uuid.New()

	entry, err := repo.Create(ctx, owner, repositories.DiaryInput{
		Content: "  a quiet day  ",
		Tags:    []string{" walk", "walk", "", "tea "},
	})
	require.NoError(t, err)
	assert.Equal(t, "a quiet day", entry.Content)
	assert.Equal(t, models.MoodNeutral, entry.Mood)
	assert.Equal(t, []string{"walk", "tea"}, entry.Tags)
	assert.Equal(t, owner, entry.UserID)
	assert.False(t, entry.CreatedAt.IsZero())

	_, err = repo.Create(ctx, owner, repositories.DiaryInput{Content: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = repo.Create(ctx, owner, repositories.DiaryInput{Content: "x", Mood: "ecstatic"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := repo.Get(ctx, owner, entry.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{"walk", "tea"}, got.Tags)
}

func TestDiaryList_NewestFirst(t *testing.T) {
	db := testkit.NewDB(t)
	repo := repositories.NewDiaryRepository(db)
	owner := uuid.New()
	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, db.Create(&models.DiaryEntry{
			UserID: owner, Content: content, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	entries, err := repo.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Content)
	assert.Equal(t, "first", entries[2].Content)
}

func TestDiaryUpdate_PartialFields(t *testing.T) {
	repo := repositories.NewDiaryRepository(testkit.NewDB(t))
	ctx := context.Background()
	owner := uuid.New()

	entry, err := repo.Create(ctx, owner, repositories.DiaryInput{Content: "draft", Mood: models.MoodCalm, Tags: []string{"a"}})
	require.NoError(t, err)

	mood := models.MoodHappy
	updated, err := repo.Update(ctx, owner, entry.ID.String(), repositories.DiaryPatch{Mood: &mood})
	require.NoError(t, err)
	assert.Equal(t, "draft", updated.Content)
	assert.Equal(t, models.MoodHappy, updated.Mood)
	assert.Equal(t, []string{"a"}, updated.Tags)

	_, err = repo.Update(ctx, owner, entry.ID.String(), repositories.DiaryPatch{Content: testkit.Ptr(" ")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = repo.Update(ctx, owner, "not-a-uuid", repositories.DiaryPatch{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDiary_OwnerIsolation(t *testing.T) {
	repo := repositories.NewDiaryRepository(testkit.NewDB(t))
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	entry, err := repo.Create(ctx, alice, repositories.DiaryInput{Content: "private"})
	require.NoError(t, err)

	list, err := repo.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repo.Get(ctx, bob, entry.ID.String())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.Update(ctx, bob, entry.ID.String(), repositories.DiaryPatch{Content: testkit.Ptr("hijack")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = repo.Delete(ctx, bob, entry.ID.String())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	still, err := repo.Get(ctx, alice, entry.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "private", still.Content)

	require.NoError(t, repo.Delete(ctx, alice, entry.ID.String()))
	assert.ErrorIs(t, repo.Delete(ctx, alice, entry.ID.String()), apperr.ErrNotFound)
}

func TestDiaryAttachVoice(t *testing.T) {
	repo := repositories.NewDiaryRepository(testkit.NewDB(t))
	ctx := context.Background()
	owner := uuid.New()

	entry, err := repo.Create(ctx, owner, repositories.DiaryInput{Content: "spoken"})
	require.NoError(t, err)

	_, err = repo.AttachVoice(ctx, uuid.New(), entry.ID.String(), "voice/x.webm")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.AttachVoice(ctx, owner, entry.ID.String(), "voice/x.webm")
	require.NoError(t, err)

	got, err := repo.Get(ctx, owner, entry.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "voice/x.webm", got.VoiceFileURL)
}

package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
	"gorm.io/gorm"
)

type DiaryInput struct {
	Content string      `json:"content"`
	Mood    models.Mood `json:"mood"`
	Tags    []string    `json:"tags"`
}

type DiaryPatch struct {
	Content *string      `json:"content"`
	Mood    *models.Mood `json:"mood"`
	Tags    *[]string    `json:"tags"`
}

type DiaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

var errDiaryNotFound = apperr.NotFound("Diary entry not found")

// List returns the owner's entries, newest first.
func (r *DiaryRepository) List(ctx context.Context, owner uuid.UUID) ([]models.DiaryEntry, error) {
	entries := []models.DiaryEntry{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list diary: %w", err)
	}
	return entries, nil
}

// CreatedBetween returns entries created in [start, end], oldest first.
func (r *DiaryRepository) CreatedBetween(ctx context.Context, owner uuid.UUID, start, end time.Time) ([]models.DiaryEntry, error) {
	entries := []models.DiaryEntry{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", owner, start.UTC(), end.UTC()).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("diary range: %w", err)
	}
	return entries, nil
}

func (r *DiaryRepository) Get(ctx context.Context, owner uuid.UUID, id string) (*models.DiaryEntry, error) {
	entryID, ok := parseID(id)
	if !ok {
		return nil, errDiaryNotFound
	}
	var entry models.DiaryEntry
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", entryID, owner).First(&entry).Error
	switch {
	case err == nil:
		return &entry, nil
	case isNotFound(err):
		return nil, errDiaryNotFound
	default:
		return nil, fmt.Errorf("get diary entry: %w", err)
	}
}

func (r *DiaryRepository) Create(ctx context.Context, owner uuid.UUID, in DiaryInput) (*models.DiaryEntry, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.ValidationField("content", "Content is required")
	}
	mood := in.Mood
	if mood == "" {
		mood = models.MoodNeutral
	}
	if !mood.Valid() {
		return nil, apperr.ValidationField("mood", "Invalid mood")
	}

	entry := &models.DiaryEntry{
		UserID:  owner,
		Content: content,
		Mood:    mood,
		Tags:    normalizeTags(in.Tags),
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("create diary entry: %w", err)
	}
	return entry, nil
}

func (r *DiaryRepository) Update(ctx context.Context, owner uuid.UUID, id string, patch DiaryPatch) (*models.DiaryEntry, error) {
	entry, err := r.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, apperr.ValidationField("content", "Content is required")
		}
		entry.Content = content
	}
	if patch.Mood != nil {
		if !patch.Mood.Valid() {
			return nil, apperr.ValidationField("mood", "Invalid mood")
		}
		entry.Mood = *patch.Mood
	}
	if patch.Tags != nil {
		entry.Tags = normalizeTags(*patch.Tags)
	}

	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, fmt.Errorf("update diary entry: %w", err)
	}
	return entry, nil
}

// AttachVoice records where the entry's voice note lives.
func (r *DiaryRepository) AttachVoice(ctx context.Context, owner uuid.UUID, id, url string) (*models.DiaryEntry, error) {
	entry, err := r.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(entry).Update("voice_file_url", url).Error; err != nil {
		return nil, fmt.Errorf("attach voice: %w", err)
	}
	entry.VoiceFileURL = url
	return entry, nil
}

func (r *DiaryRepository) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	entryID, ok := parseID(id)
	if !ok {
		return errDiaryNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", entryID, owner).Delete(&models.DiaryEntry{})
	if res.Error != nil {
		return fmt.Errorf("delete diary entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errDiaryNotFound
	}
	return nil
}

// normalizeTags trims, drops blanks and keeps the first of any duplicates.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

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

// MaxPreAlert bounds how early a reminder may alert, in minutes.
const MaxPreAlert = 7 * 24 * 60

type ReminderInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Datetime    string            `json:"datetime"`
	PreAlert    *int              `json:"preAlert"`
	Color       string            `json:"color"`
	Recurring   models.Recurrence `json:"recurring"`
}

type ReminderPatch struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Datetime    *string            `json:"datetime"`
	PreAlert    *int               `json:"preAlert"`
	Color       *string            `json:"color"`
	Recurring   *models.Recurrence `json:"recurring"`
	Completed   *bool              `json:"completed"`
}

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

var errReminderNotFound = apperr.NotFound("Reminder not found")

// List returns the owner's reminders, soonest first.
func (r *ReminderRepository) List(ctx context.Context, owner uuid.UUID) ([]models.Reminder, error) {
	reminders := []models.Reminder{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("datetime ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

// Range returns reminders scheduled in [start, end], soonest first.
func (r *ReminderRepository) Range(ctx context.Context, owner uuid.UUID, start, end time.Time) ([]models.Reminder, error) {
	reminders := []models.Reminder{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND datetime >= ? AND datetime <= ?", owner, start.UTC(), end.UTC()).
		Order("datetime ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("reminder range: %w", err)
	}
	return reminders, nil
}

// Upcoming returns incomplete reminders scheduled in [from, to], soonest first.
func (r *ReminderRepository) Upcoming(ctx context.Context, owner uuid.UUID, from, to time.Time, limit int) ([]models.Reminder, error) {
	reminders := []models.Reminder{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ? AND datetime >= ? AND datetime <= ?", owner, false, from.UTC(), to.UTC()).
		Order("datetime ASC").
		Limit(limit).
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("upcoming reminders: %w", err)
	}
	return reminders, nil
}

// DueForAlert returns incomplete reminders of every user whose alert instant
// falls in (from, to].
func (r *ReminderRepository) DueForAlert(ctx context.Context, from, to time.Time) ([]models.Reminder, error) {
	candidates := []models.Reminder{}
	err := r.db.WithContext(ctx).
		Where("completed = ? AND datetime > ? AND datetime <= ?", false, from.UTC(), to.Add(MaxPreAlert*time.Minute).UTC()).
		Order("datetime ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("due reminders: %w", err)
	}

	due := candidates[:0]
	for _, rem := range candidates {
		at := rem.AlertAt()
		if at.After(from) && !at.After(to) {
			due = append(due, rem)
		}
	}
	return due, nil
}

func (r *ReminderRepository) Get(ctx context.Context, owner uuid.UUID, id string) (*models.Reminder, error) {
	reminderID, ok := parseID(id)
	if !ok {
		return nil, errReminderNotFound
	}
	var reminder models.Reminder
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", reminderID, owner).First(&reminder).Error
	switch {
	case err == nil:
		return &reminder, nil
	case isNotFound(err):
		return nil, errReminderNotFound
	default:
		return nil, fmt.Errorf("get reminder: %w", err)
	}
}

func (r *ReminderRepository) Create(ctx context.Context, owner uuid.UUID, in ReminderInput) (*models.Reminder, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.ValidationField("title", "Title is required")
	}
	if strings.TrimSpace(in.Datetime) == "" {
		return nil, apperr.ValidationField("datetime", "Date and time are required")
	}
	at, err := models.ParseTime(in.Datetime)
	if err != nil {
		return nil, apperr.ValidationField("datetime", "Invalid date and time")
	}

	preAlert := models.DefaultPreAlert
	if in.PreAlert != nil {
		preAlert = *in.PreAlert
	}
	if err := validatePreAlert(preAlert); err != nil {
		return nil, err
	}
	recurring := in.Recurring
	if recurring == "" {
		recurring = models.RecurrenceNone
	}
	if !recurring.Valid() {
		return nil, apperr.ValidationField("recurring", "Invalid recurrence")
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = models.DefaultReminderColor
	}

	reminder := &models.Reminder{
		UserID:      owner,
		Title:       title,
		Description: in.Description,
		Datetime:    at,
		PreAlert:    preAlert,
		Color:       color,
		Recurring:   recurring,
	}
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return reminder, nil
}

func (r *ReminderRepository) Update(ctx context.Context, owner uuid.UUID, id string, patch ReminderPatch) (*models.Reminder, error) {
	reminder, err := r.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperr.ValidationField("title", "Title is required")
		}
		reminder.Title = title
	}
	if patch.Description != nil {
		reminder.Description = *patch.Description
	}
	if patch.Datetime != nil {
		at, err := models.ParseTime(*patch.Datetime)
		if err != nil {
			return nil, apperr.ValidationField("datetime", "Invalid date and time")
		}
		reminder.Datetime = at
	}
	if patch.PreAlert != nil {
		if err := validatePreAlert(*patch.PreAlert); err != nil {
			return nil, err
		}
		reminder.PreAlert = *patch.PreAlert
	}
	if patch.Color != nil && strings.TrimSpace(*patch.Color) != "" {
		reminder.Color = strings.TrimSpace(*patch.Color)
	}
	if patch.Recurring != nil {
		if !patch.Recurring.Valid() {
			return nil, apperr.ValidationField("recurring", "Invalid recurrence")
		}
		reminder.Recurring = *patch.Recurring
	}
	if patch.Completed != nil {
		reminder.Completed = *patch.Completed
	}

	if err := r.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return nil, fmt.Errorf("update reminder: %w", err)
	}
	return reminder, nil
}

func (r *ReminderRepository) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	reminderID, ok := parseID(id)
	if !ok {
		return errReminderNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", reminderID, owner).Delete(&models.Reminder{})
	if res.Error != nil {
		return fmt.Errorf("delete reminder: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errReminderNotFound
	}
	return nil
}

func validatePreAlert(minutes int) error {
	if minutes < 0 || minutes > MaxPreAlert {
		return apperr.ValidationField("preAlert", "Pre-alert must be between 0 and 10080 minutes")
	}
	return nil
}

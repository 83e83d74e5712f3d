package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AccountExport is everything stored for one user.
type AccountExport struct {
	User         *models.User        `json:"user"`
	Settings     *models.Setting     `json:"settings"`
	DiaryEntries []models.DiaryEntry `json:"diaryEntries"`
	Tasks        []models.Task       `json:"tasks"`
	Reminders    []models.Reminder   `json:"reminders"`
	ExportDate   time.Time           `json:"exportDate"`
}

type AccountRepository struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewAccountRepository(db *gorm.DB, log *slog.Logger) *AccountRepository {
	return &AccountRepository{db: db, log: log}
}

// Delete removes the user and then everything the user owns.
//
// The deletes are independent statements, not one transaction. If a step
// fails the rest still run, every failure is logged, and the first error is
// returned; records left behind are orphans of a user that no longer exists.
func (r *AccountRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", userID).Delete(&models.User{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}

	owned := []struct {
		name  string
		model any
	}{
		{"settings", &models.Setting{}},
		{"diary", &models.DiaryEntry{}},
		{"tasks", &models.Task{}},
		{"reminders", &models.Reminder{}},
	}

	var firstErr error
	for _, o := range owned {
		if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(o.model).Error; err != nil {
			r.log.ErrorContext(ctx, "account cascade failed", "user_id", userID, "collection", o.name, "err", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("delete %s: %w", o.name, err)
			}
		}
	}
	return firstErr
}

// Export gathers all of a user's records.
func (r *AccountRepository) Export(ctx context.Context, userID uuid.UUID, now time.Time) (*AccountExport, error) {
	out := &AccountExport{ExportDate: now.UTC()}

	g, gctx := errgroup.WithContext(ctx)
	db := r.db.WithContext(gctx)

	g.Go(func() error {
		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			return fmt.Errorf("export user: %w", err)
		}
		out.User = &user
		return nil
	})
	g.Go(func() error {
		var setting models.Setting
		err := db.Where("user_id = ?", userID).First(&setting).Error
		switch {
		case err == nil:
			out.Settings = &setting
		case isNotFound(err):
		default:
			return fmt.Errorf("export settings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		out.DiaryEntries = []models.DiaryEntry{}
		return wrapExport("diary", db.Where("user_id = ?", userID).Order("created_at ASC").Find(&out.DiaryEntries).Error)
	})
	g.Go(func() error {
		out.Tasks = []models.Task{}
		return wrapExport("tasks", db.Where("user_id = ?", userID).Order("sort_order ASC").Find(&out.Tasks).Error)
	})
	g.Go(func() error {
		out.Reminders = []models.Reminder{}
		return wrapExport("reminders", db.Where("user_id = ?", userID).Order("datetime ASC").Find(&out.Reminders).Error)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func wrapExport(what string, err error) error {
	if err != nil {
		return fmt.Errorf("export %s: %w", what, err)
	}
	return nil
}

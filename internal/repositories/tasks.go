package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
	"gorm.io/gorm"
)

type TaskInput struct {
	Text string `json:"text"`
	Time string `json:"time"`
	Icon string `json:"icon"`
}

type TaskPatch struct {
	Text      *string `json:"text"`
	Time      *string `json:"time"`
	Icon      *string `json:"icon"`
	Completed *bool   `json:"completed"`
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

var errTaskNotFound = apperr.NotFound("Task not found")

// List returns tasks in manual order; ties go to the most recent.
func (r *TaskRepository) List(ctx context.Context, owner uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("sort_order ASC").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, owner uuid.UUID, id string) (*models.Task, error) {
	taskID, ok := parseID(id)
	if !ok {
		return nil, errTaskNotFound
	}
	var task models.Task
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", taskID, owner).First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case isNotFound(err):
		return nil, errTaskNotFound
	default:
		return nil, fmt.Errorf("get task: %w", err)
	}
}

// Create appends the task after the owner's current last one.
func (r *TaskRepository) Create(ctx context.Context, owner uuid.UUID, in TaskInput) (*models.Task, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperr.ValidationField("text", "Task text is required")
	}

	next := 0
	var last models.Task
	err := r.db.WithContext(ctx).Where("user_id = ?", owner).Order("sort_order DESC").First(&last).Error
	switch {
	case err == nil:
		next = last.Order + 1
	case isNotFound(err):
	default:
		return nil, fmt.Errorf("find last task: %w", err)
	}

	task := &models.Task{
		UserID: owner,
		Text:   text,
		Time:   in.Time,
		Icon:   in.Icon,
		Order:  next,
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, owner uuid.UUID, id string, patch TaskPatch) (*models.Task, error) {
	task, err := r.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return nil, apperr.ValidationField("text", "Task text is required")
		}
		task.Text = text
	}
	if patch.Time != nil {
		task.Time = *patch.Time
	}
	if patch.Icon != nil {
		task.Icon = *patch.Icon
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}

	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	taskID, ok := parseID(id)
	if !ok {
		return errTaskNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", taskID, owner).Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errTaskNotFound
	}
	return nil
}

// Reorder sets each task's order to its index in ids. Ids the owner does not
// have are skipped and left out of the result.
//
// Each position is an independent update with no surrounding transaction, so
// two concurrent reorders for the same owner can interleave and leave a mixed
// order behind.
func (r *TaskRepository) Reorder(ctx context.Context, owner uuid.UUID, ids []string) ([]models.Task, error) {
	updated := make([]models.Task, 0, len(ids))
	for i, raw := range ids {
		taskID, ok := parseID(raw)
		if !ok {
			continue
		}
		res := r.db.WithContext(ctx).
			Model(&models.Task{}).
			Where("id = ? AND user_id = ?", taskID, owner).
			Update("sort_order", i)
		if res.Error != nil {
			return nil, fmt.Errorf("reorder task %s: %w", taskID, res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		task, err := r.Get(ctx, owner, raw)
		if err != nil {
			if apperr.GetCode(err) == apperr.CodeNotFound {
				continue // deleted between the update and the read
			}
			return nil, err
		}
		updated = append(updated, *task)
	}
	return updated, nil
}

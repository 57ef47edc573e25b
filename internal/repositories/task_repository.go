package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"childcare-tasks.com/childcare-tasks/internal/constants"
	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	model "childcare-tasks.com/childcare-tasks/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

// CursorKey is the ordering key of the last row of a previous page.
type CursorKey struct {
	ID      string
	DueDate *time.Time
}

// TaskListFilter narrows a page query. Zero values mean "no filter".
type TaskListFilter struct {
	AssignedToID string
	Status       constants.TaskStatus
	SortOrder    constants.SortOrder
	After        *CursorKey
	Take         int
}

type StatusCount struct {
	Status constants.TaskStatus
	Count  int64
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID returns a live task. Soft-deleted rows are reported as not found.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ? AND deleted = ?", id, false).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// FindCursor resolves a cursor id to its ordering key, including soft-deleted
// rows so a page boundary survives a delete between fetches.
func (r *TaskRepository) FindCursor(ctx context.Context, id string) (*CursorKey, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Select("id", "due_date").Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCursor
	}
	if err != nil {
		return nil, fmt.Errorf("find cursor: %w", err)
	}
	return &CursorKey{ID: task.ID, DueDate: task.DueDate}, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = r.db.NowFunc()

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":           task.Title,
			"description":     task.Description,
			"due_date":        task.DueDate,
			"priority":        task.Priority,
			"status":          task.Status,
			"assigned_to_id":  task.AssignedToID,
			"is_recurring":    task.IsRecurring,
			"recurring_type":  task.RecurringType,
			"next_occurrence": task.NextOccurrence,
			"updated_at":      task.UpdatedAt,
		})

	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{
			"deleted":    true,
			"updated_at": r.db.NowFunc(),
		})

	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// List returns up to f.Take live tasks ordered by due date (nulls last) in
// f.SortOrder, ties broken by id ascending, starting strictly after f.After.
func (r *TaskRepository) List(ctx context.Context, f TaskListFilter) ([]model.Task, error) {
	dir, cmp := "DESC", "<"
	if f.SortOrder == constants.SortAsc {
		dir, cmp = "ASC", ">"
	}

	query := r.scoped(ctx, f.AssignedToID)
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	if f.After != nil {
		if f.After.DueDate == nil {
			query = query.Where("(due_date IS NULL AND id > ?)", f.After.ID)
		} else {
			query = query.Where(
				fmt.Sprintf("((due_date %s ?) OR (due_date = ? AND id > ?) OR due_date IS NULL)", cmp),
				*f.After.DueDate, *f.After.DueDate, f.After.ID,
			)
		}
	}

	query = query.
		Order("due_date IS NULL").
		Order("due_date " + dir).
		Order("id ASC")
	if f.Take > 0 {
		query = query.Limit(f.Take)
	}

	var tasks []model.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context, assignedToID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.scoped(ctx, assignedToID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}
	return rows, nil
}

// CompletedBetween returns the update times of DONE tasks last touched in [from, to].
func (r *TaskRepository) CompletedBetween(ctx context.Context, assignedToID string, from, to time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.scoped(ctx, assignedToID).
		Where("status = ? AND updated_at >= ? AND updated_at <= ?", constants.StatusDone, from, to).
		Order("updated_at ASC").
		Pluck("updated_at", &stamps).Error
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	return stamps, nil
}

func (r *TaskRepository) scoped(ctx context.Context, assignedToID string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Task{}).Where("deleted = ?", false)
	if assignedToID != "" {
		query = query.Where("assigned_to_id = ?", assignedToID)
	}
	return query
}

package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamlog/teamlog-backend/internal/domain"
	"gorm.io/gorm"
)

// TaskRepository task data access interface
type TaskRepository interface {
	Create(task *domain.Task) error
	FindByID(id uint) (*domain.Task, error)
	List(filter domain.TaskFilter, skip, limit int) ([]*domain.Task, error)
	CountByAssignee(userID uint) (int64, error)
	Update(id uint, cols map[string]interface{}) (*domain.Task, error)
	Delete(id uint) (bool, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *domain.Task) error {
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *taskRepository) FindByID(id uint) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return &task, nil
}

func (r *taskRepository) List(filter domain.TaskFilter, skip, limit int) ([]*domain.Task, error) {
	skip, limit = paginate(skip, limit)
	query := r.db.Model(&domain.Task{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var tasks []*domain.Task
	if err := query.Order("id ASC").Offset(skip).Limit(limit).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) CountByAssignee(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Task{}).Where("assignee_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks for %d: %w", userID, err)
	}
	return count, nil
}

// Update applies cols and refreshes updated_at; returns nil when the task does not exist
func (r *taskRepository) Update(id uint, cols map[string]interface{}) (*domain.Task, error) {
	var updated *domain.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var task domain.Task
		err := tx.Where("id = ?", id).First(&task).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		cols["updated_at"] = time.Now().UTC()
		if err := tx.Model(&domain.Task{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			return err
		}
		updated = &task
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes the task; messages scoped to it keep existing with task_id cleared
func (r *taskRepository) Delete(id uint) (bool, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Message{}).Where("task_id = ?", id).
			Updates(map[string]interface{}{"task_id": nil, "updated_at": time.Now().UTC()}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Task{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return affected > 0, nil
}

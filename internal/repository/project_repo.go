package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamlog/teamlog-backend/internal/domain"
	"gorm.io/gorm"
)

// ProjectRepository project data access interface
type ProjectRepository interface {
	Create(project *domain.Project) error
	FindByID(id uint) (*domain.Project, error)
	List(skip, limit int) ([]*domain.Project, error)
	Update(id uint, cols map[string]interface{}) (*domain.Project, error)
	Delete(id uint) (bool, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *domain.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *projectRepository) FindByID(id uint) (*domain.Project, error) {
	var project domain.Project
	err := r.db.Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project %d: %w", id, err)
	}
	return &project, nil
}

func (r *projectRepository) List(skip, limit int) ([]*domain.Project, error) {
	skip, limit = paginate(skip, limit)
	var projects []*domain.Project
	if err := r.db.Order("id ASC").Offset(skip).Limit(limit).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Update applies cols and refreshes updated_at; returns nil when the project does not exist
func (r *projectRepository) Update(id uint, cols map[string]interface{}) (*domain.Project, error) {
	var updated *domain.Project
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var project domain.Project
		err := tx.Where("id = ?", id).First(&project).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		cols["updated_at"] = time.Now().UTC()
		if err := tx.Model(&domain.Project{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).First(&project).Error; err != nil {
			return err
		}
		updated = &project
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes the project and its tasks; messages survive with project/task scope cleared
func (r *projectRepository) Delete(id uint) (bool, error) {
	found := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true

		now := time.Now().UTC()
		taskIDs := tx.Model(&domain.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Model(&domain.Message{}).Where("task_id IN (?)", taskIDs).
			Updates(map[string]interface{}{"task_id": nil, "updated_at": now}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Message{}).Where("project_id = ?", id).
			Updates(map[string]interface{}{"project_id": nil, "updated_at": now}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.Task{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Project{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete project %d: %w", id, err)
	}
	return found, nil
}

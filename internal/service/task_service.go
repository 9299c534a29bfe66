package service

import (
	"fmt"
	"strings"

	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/repository"
)

// TaskService task lifecycle
type TaskService interface {
	CreateTask(req *domain.CreateTaskRequest) (*domain.Task, error)
	GetTask(id uint) (*domain.Task, error)
	ListTasks(filter domain.TaskFilter, skip, limit int) ([]*domain.Task, error)
	UpdateTask(id uint, req *domain.UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(id uint) error
}

type taskService struct {
	repo        repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(repo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) TaskService {
	return &taskService{repo: repo, projectRepo: projectRepo, userRepo: userRepo}
}

func (s *taskService) checkAssignee(assigneeID *uint) error {
	if assigneeID == nil {
		return nil
	}
	user, err := s.userRepo.FindByID(*assigneeID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("assignee: %w: %d", common.ErrUserNotFound, *assigneeID)
	}
	return nil
}

func (s *taskService) CreateTask(req *domain.CreateTaskRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.NewValidationError("title", "task title is required")
	}
	status := req.Status
	if status == "" {
		status = domain.TaskStatusPending
	}
	if !status.Valid() {
		return nil, common.NewValidationError("status", fmt.Sprintf("unknown task status %q", status))
	}

	project, err := s.projectRepo.FindByID(req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %d", common.ErrProjectNotFound, req.ProjectID)
	}
	if err := s.checkAssignee(req.AssigneeID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       title,
		Description: req.Description,
		Status:      status,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
	}
	if err := s.repo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetTask(id uint) (*domain.Task, error) {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %d", common.ErrTaskNotFound, id)
	}
	return task, nil
}

func (s *taskService) ListTasks(filter domain.TaskFilter, skip, limit int) ([]*domain.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, common.NewValidationError("status", fmt.Sprintf("unknown task status %q", *filter.Status))
	}
	return s.repo.List(filter, skip, limit)
}

func (s *taskService) UpdateTask(id uint, req *domain.UpdateTaskRequest) (*domain.Task, error) {
	cols := map[string]interface{}{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, common.NewValidationError("title", "task title cannot be empty")
		}
		cols["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		cols["description"] = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, common.NewValidationError("status", fmt.Sprintf("unknown task status %q", *req.Status))
		}
		cols["status"] = *req.Status
	}
	if req.AssigneeID != nil {
		if err := s.checkAssignee(req.AssigneeID); err != nil {
			return nil, err
		}
		cols["assignee_id"] = *req.AssigneeID
	}

	task, err := s.repo.Update(id, cols)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %d", common.ErrTaskNotFound, id)
	}
	return task, nil
}

func (s *taskService) DeleteTask(id uint) error {
	found, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %d", common.ErrTaskNotFound, id)
	}
	return nil
}

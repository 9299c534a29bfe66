package service

import (
	"fmt"
	"strings"

	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/repository"
	"github.com/teamlog/teamlog-backend/pkg/logger"
)

// ProjectService project lifecycle
type ProjectService interface {
	CreateProject(req *domain.CreateProjectRequest) (*domain.Project, error)
	GetProject(id uint, includeTasks bool) (*domain.ProjectResource, error)
	ListProjects(skip, limit int) ([]*domain.Project, error)
	UpdateProject(id uint, req *domain.UpdateProjectRequest) (*domain.Project, error)
	DeleteProject(id uint) error
}

type projectService struct {
	repo     repository.ProjectRepository
	taskRepo repository.TaskRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(repo repository.ProjectRepository, taskRepo repository.TaskRepository) ProjectService {
	return &projectService{repo: repo, taskRepo: taskRepo}
}

func (s *projectService) CreateProject(req *domain.CreateProjectRequest) (*domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.NewValidationError("name", "project name is required")
	}
	project := &domain.Project{Name: name, Description: req.Description}
	if err := s.repo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetProject(id uint, includeTasks bool) (*domain.ProjectResource, error) {
	project, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %d", common.ErrProjectNotFound, id)
	}
	res := &domain.ProjectResource{Project: project}
	if includeTasks {
		// a project's task list is not paginated in the resource view
		tasks, err := s.taskRepo.List(domain.TaskFilter{ProjectID: &id}, 0, 10000)
		if err != nil {
			return nil, err
		}
		res.Tasks = tasks
	}
	return res, nil
}

func (s *projectService) ListProjects(skip, limit int) ([]*domain.Project, error) {
	return s.repo.List(skip, limit)
}

func (s *projectService) UpdateProject(id uint, req *domain.UpdateProjectRequest) (*domain.Project, error) {
	cols := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, common.NewValidationError("name", "project name cannot be empty")
		}
		cols["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		cols["description"] = *req.Description
	}
	project, err := s.repo.Update(id, cols)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %d", common.ErrProjectNotFound, id)
	}
	return project, nil
}

// DeleteProject removes the project and its tasks; its messages are kept with project_id cleared
func (s *projectService) DeleteProject(id uint) error {
	found, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %d", common.ErrProjectNotFound, id)
	}
	logger.GetLogger().Info().Uint("project_id", id).Msg("project deleted")
	return nil
}

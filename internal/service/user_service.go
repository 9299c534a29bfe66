package service

import (
	"fmt"
	"strings"

	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

// UserService team member management
type UserService interface {
	CreateUser(req *domain.CreateUserRequest) (*domain.User, error)
	GetUser(id uint) (*domain.User, error)
	GetUserResource(id uint, includeActivity bool) (*domain.UserResource, error)
	FindUser(username, email string) (*domain.User, error)
	ListUsers(filter domain.UserFilter, skip, limit int) ([]*domain.User, error)
}

type userService struct {
	repo        repository.UserRepository
	messageRepo repository.MessageRepository
	taskRepo    repository.TaskRepository
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository, messageRepo repository.MessageRepository, taskRepo repository.TaskRepository) UserService {
	return &userService{repo: repo, messageRepo: messageRepo, taskRepo: taskRepo}
}

func (s *userService) CreateUser(req *domain.CreateUserRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" {
		return nil, common.NewValidationError("username", "username is required")
	}
	if email == "" {
		return nil, common.NewValidationError("email", "email is required")
	}

	existing, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %q: %w", username, common.ErrConflict)
	}
	existing, err = s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %q: %w", email, common.ErrConflict)
	}

	user := &domain.User{Username: username, Email: email}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(id uint) (*domain.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %d", common.ErrUserNotFound, id)
	}
	return user, nil
}

// GetUserResource returns the user, optionally with message and assigned task counters
func (s *userService) GetUserResource(id uint, includeActivity bool) (*domain.UserResource, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	res := &domain.UserResource{User: user}
	if !includeActivity {
		return res, nil
	}

	var messages, tasks int64
	var g errgroup.Group
	g.Go(func() (err error) {
		messages, err = s.messageRepo.CountByAuthor(id)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.taskRepo.CountByAssignee(id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res.MessageCount = &messages
	res.AssignedTaskCount = &tasks
	return res, nil
}

// FindUser looks a user up by username, falling back to email
func (s *userService) FindUser(username, email string) (*domain.User, error) {
	var (
		user *domain.User
		err  error
	)
	switch {
	case username != "":
		user, err = s.repo.FindByUsername(username)
	case email != "":
		user, err = s.repo.FindByEmail(email)
	default:
		return nil, common.NewValidationError("username", "username or email is required")
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) ListUsers(filter domain.UserFilter, skip, limit int) ([]*domain.User, error) {
	return s.repo.List(filter, skip, limit)
}

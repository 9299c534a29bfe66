package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/migration"
	"github.com/teamlog/teamlog-backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type services struct {
	messages MessageService
	users    UserService
	projects ProjectService
	tasks    TaskService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migration.Run(db))

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	return &services{
		messages: NewMessageService(messageRepo, userRepo, projectRepo, taskRepo),
		users:    NewUserService(userRepo, messageRepo, taskRepo),
		projects: NewProjectService(projectRepo, taskRepo),
		tasks:    NewTaskService(taskRepo, projectRepo, userRepo),
	}
}

func (s *services) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := s.users.CreateUser(&domain.CreateUserRequest{Username: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func (s *services) project(t *testing.T, name string) *domain.Project {
	t.Helper()
	p, err := s.projects.CreateProject(&domain.CreateProjectRequest{Name: name})
	require.NoError(t, err)
	return p
}

func responseIDs(views []*domain.MessageResponse) []uint {
	out := make([]uint, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }

package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/migration"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// one connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migration.Run(db))
	return db
}

type fixture struct {
	db       *gorm.DB
	users    UserRepository
	projects ProjectRepository
	tasks    TaskRepository
	messages MessageRepository
}

func newFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	return &fixture{
		db:       db,
		users:    NewUserRepository(db),
		projects: NewProjectRepository(db),
		tasks:    NewTaskRepository(db),
		messages: NewMessageRepository(db),
	}
}

func (f *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) project(t *testing.T, name string) *domain.Project {
	t.Helper()
	p := &domain.Project{Name: name}
	require.NoError(t, f.projects.Create(p))
	return p
}

func (f *fixture) task(t *testing.T, projectID uint, title string) *domain.Task {
	t.Helper()
	task := &domain.Task{Title: title, ProjectID: projectID}
	require.NoError(t, f.tasks.Create(task))
	return task
}

func (f *fixture) comment(t *testing.T, userID uint, projectID *uint, parentID *uint, content string) *domain.Message {
	t.Helper()
	m := &domain.Message{
		Content:     content,
		MessageType: domain.MessageTypeComment,
		UserID:      userID,
		ProjectID:   projectID,
		ParentID:    parentID,
	}
	require.NoError(t, f.messages.Create(m))
	return m
}

func ids(messages []*domain.Message) []uint {
	out := make([]uint, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}

func uintPtr(v uint) *uint { return &v }

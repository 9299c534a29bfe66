package service

import (
	"github.com/stretchr/testify/mock"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/repository"
)

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) messages(args mock.Arguments) ([]*domain.Message, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) message(args mock.Arguments) (*domain.Message, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) FindByID(id uint) (*domain.Message, error) {
	return m.message(m.Called(id))
}

func (m *mockMessageRepo) Exists(id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockMessageRepo) List(filter domain.MessageFilter, skip, limit int) ([]*domain.Message, error) {
	return m.messages(m.Called(filter, skip, limit))
}

func (m *mockMessageRepo) ListDirect(userA, userB uint, skip, limit int) ([]*domain.Message, error) {
	return m.messages(m.Called(userA, userB, skip, limit))
}

func (m *mockMessageRepo) ListThread(parentID uint, skip, limit int) ([]*domain.Message, error) {
	return m.messages(m.Called(parentID, skip, limit))
}

func (m *mockMessageRepo) ListUnread(userID uint, messageType *domain.MessageType) ([]*domain.Message, error) {
	return m.messages(m.Called(userID, messageType))
}

func (m *mockMessageRepo) CountUnread(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) CountByAuthor(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) Create(msg *domain.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMessageRepo) CreateDirect(content string, senderID, recipientID uint, parentID *uint) (*domain.Message, error) {
	return m.message(m.Called(content, senderID, recipientID, parentID))
}

func (m *mockMessageRepo) UpdateFields(id uint, update domain.MessageUpdate) (*domain.Message, error) {
	return m.message(m.Called(id, update))
}

func (m *mockMessageRepo) MarkRead(id uint) (*domain.Message, error) {
	return m.message(m.Called(id))
}

func (m *mockMessageRepo) MarkDeleted(id uint) (*domain.Message, error) {
	return m.message(m.Called(id))
}

func (m *mockMessageRepo) MarkConversationRead(userID, otherUserID uint) (int64, error) {
	args := m.Called(userID, otherUserID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) user(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Create(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) FindByID(id uint) (*domain.User, error) {
	return m.user(m.Called(id))
}

func (m *mockUserRepo) FindByUsername(username string) (*domain.User, error) {
	return m.user(m.Called(username))
}

func (m *mockUserRepo) FindByEmail(email string) (*domain.User, error) {
	return m.user(m.Called(email))
}

func (m *mockUserRepo) FindByIDs(ids []uint) (map[uint]*domain.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(filter domain.UserFilter, skip, limit int) ([]*domain.User, error) {
	args := m.Called(filter, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

// --- Lookup-only mocks; anything else panics on the nil interface ---

type mockProjectRepo struct {
	repository.ProjectRepository
	mock.Mock
}

func (m *mockProjectRepo) FindByID(id uint) (*domain.Project, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

type mockTaskRepo struct {
	repository.TaskRepository
	mock.Mock
}

func (m *mockTaskRepo) FindByID(id uint) (*domain.Task, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

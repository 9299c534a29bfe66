package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/repository"
)

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
	var verr *common.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, field, verr.Field)
}

// --- validation never reaches the store ---

func TestCreateMessage_RejectedBeforeStore(t *testing.T) {
	cases := []struct {
		name  string
		req   domain.CreateMessageRequest
		field string
	}{
		{"empty content", domain.CreateMessageRequest{Content: "", UserID: ptr(uint(1))}, "content"},
		{"blank content", domain.CreateMessageRequest{Content: "   ", UserID: ptr(uint(1))}, "content"},
		{"missing author", domain.CreateMessageRequest{Content: "hi"}, "user_id"},
		{"unknown type", domain.CreateMessageRequest{Content: "hi", UserID: ptr(uint(1)), MessageType: "shout"}, "message_type"},
		{"dm without recipient", domain.CreateMessageRequest{Content: "hi", UserID: ptr(uint(1)), MessageType: domain.MessageTypeDirectMessage}, "recipient_id"},
		{"dm with project", domain.CreateMessageRequest{Content: "hi", UserID: ptr(uint(1)), MessageType: domain.MessageTypeDirectMessage, RecipientID: ptr(uint(2)), ProjectID: ptr(uint(3))}, "project_id"},
		{"dm with task", domain.CreateMessageRequest{Content: "hi", UserID: ptr(uint(1)), MessageType: domain.MessageTypeDirectMessage, RecipientID: ptr(uint(2)), TaskID: ptr(uint(3))}, "project_id"},
		{"dm to self", domain.CreateMessageRequest{Content: "hi", UserID: ptr(uint(1)), MessageType: domain.MessageTypeDirectMessage, RecipientID: ptr(uint(1))}, "recipient_id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockMessageRepo)
			repo.Test(t)
			svc := NewMessageService(repo, nil, nil, nil)

			req := tc.req
			resp, err := svc.CreateMessage(&req)

			assert.Nil(t, resp)
			assertField(t, err, tc.field)
			repo.AssertNotCalled(t, "Create", mock.Anything)
			repo.AssertNotCalled(t, "Exists", mock.Anything)
		})
	}
}

func TestCreateMessage_UnknownParent(t *testing.T) {
	repo := new(mockMessageRepo)
	repo.Test(t)
	repo.On("Exists", uint(77)).Return(false, nil)
	users := new(mockUserRepo)
	users.On("FindByID", uint(1)).Return(&domain.User{ID: 1}, nil)
	svc := NewMessageService(repo, users, nil, nil)

	_, err := svc.CreateMessage(&domain.CreateMessageRequest{Content: "reply", UserID: ptr(uint(1)), ParentID: ptr(uint(77))})

	assertField(t, err, "parent_id")
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateMessage_DefaultsToComment(t *testing.T) {
	repo := new(mockMessageRepo)
	repo.Test(t)
	repo.On("Create", mock.MatchedBy(func(m *domain.Message) bool {
		return m.MessageType == domain.MessageTypeComment && *m.ProjectID == 4
	})).Return(nil)
	users := new(mockUserRepo)
	users.On("FindByID", uint(1)).Return(&domain.User{ID: 1}, nil)
	projects := new(mockProjectRepo)
	projects.On("FindByID", uint(4)).Return(&domain.Project{ID: 4}, nil)
	svc := NewMessageService(repo, users, projects, nil)

	before := testutil.ToFloat64(messagesCreatedTotal.WithLabelValues("comment"))
	resp, err := svc.CreateMessage(&domain.CreateMessageRequest{Content: "hello", UserID: ptr(uint(1)), ProjectID: ptr(uint(4))})

	require.NoError(t, err)
	assert.Equal(t, domain.MessageTypeComment, resp.MessageType)
	assert.Equal(t, before+1, testutil.ToFloat64(messagesCreatedTotal.WithLabelValues("comment")))
	repo.AssertExpectations(t)
}

func TestCreateMessage_StoreFailurePropagates(t *testing.T) {
	repo := new(mockMessageRepo)
	repo.Test(t)
	boom := errors.New("db down")
	repo.On("Create", mock.Anything).Return(boom)
	users := new(mockUserRepo)
	users.On("FindByID", uint(1)).Return(&domain.User{ID: 1}, nil)
	svc := NewMessageService(repo, users, nil, nil)

	_, err := svc.CreateMessage(&domain.CreateMessageRequest{Content: "hello", UserID: ptr(uint(1))})

	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, common.ErrInvalidInput))
}

func TestCreateDirectMessage_SelfRejected(t *testing.T) {
	repo := new(mockMessageRepo)
	repo.Test(t)
	svc := NewMessageService(repo, nil, nil, nil)

	before := testutil.ToFloat64(messageRejectionsTotal.WithLabelValues("recipient_id"))
	_, err := svc.CreateDirectMessage(&domain.CreateDirectMessageRequest{Content: "me", UserID: 3, RecipientID: 3})

	assertField(t, err, "recipient_id")
	assert.Equal(t, before+1, testutil.ToFloat64(messageRejectionsTotal.WithLabelValues("recipient_id")))
	repo.AssertNotCalled(t, "CreateDirect", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMessage_TypeGuards(t *testing.T) {
	repo := new(mockMessageRepo)
	repo.Test(t)
	svc := NewMessageService(repo, nil, nil, nil)

	dm := domain.MessageTypeDirectMessage
	_, err := svc.UpdateMessage(1, domain.MessageUpdate{MessageType: &dm})
	assertField(t, err, "message_type")

	empty := " "
	_, err = svc.UpdateMessage(1, domain.MessageUpdate{Content: &empty})
	assertField(t, err, "content")
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)

	// the stored type is checked inside the update transaction
	comment := domain.MessageTypeComment
	update := domain.MessageUpdate{MessageType: &comment}
	repo.On("UpdateFields", uint(2), update).Return(nil, fmt.Errorf("update message 2: %w", repository.ErrMessageTypeLocked))
	_, err = svc.UpdateMessage(2, update)
	assertField(t, err, "message_type")
	repo.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestCreateMessage_LookupFailureStopsCreate(t *testing.T) {
	repo := new(mockMessageRepo)
	repo.Test(t)
	boom := errors.New("db down")
	users := new(mockUserRepo)
	users.On("FindByID", uint(1)).Return(&domain.User{ID: 1}, nil)
	tasks := new(mockTaskRepo)
	tasks.On("FindByID", uint(8)).Return(nil, boom)
	svc := NewMessageService(repo, users, nil, tasks)

	_, err := svc.CreateMessage(&domain.CreateMessageRequest{Content: "update", UserID: ptr(uint(1)), TaskID: ptr(uint(8))})

	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, common.ErrNotFound))
	repo.AssertNotCalled(t, "Create", mock.Anything)
	repo.AssertNotCalled(t, "Exists", mock.Anything)
}

func TestMutationsOnMissingMessage(t *testing.T) {
	repo := new(mockMessageRepo)
	repo.Test(t)
	repo.On("MarkRead", uint(9)).Return(nil, nil)
	repo.On("MarkDeleted", uint(9)).Return(nil, nil)
	repo.On("FindByID", uint(9)).Return(nil, nil)
	svc := NewMessageService(repo, nil, nil, nil)

	_, err := svc.MarkMessageAsRead(9)
	assert.ErrorIs(t, err, common.ErrMessageNotFound)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.DeleteMessage(9)
	assert.ErrorIs(t, err, common.ErrMessageNotFound)

	_, err = svc.GetMessage(9)
	assert.ErrorIs(t, err, common.ErrMessageNotFound)
}

// --- scenarios against sqlite ---

func TestScenario_ProjectCommentThread(t *testing.T) {
	s := newServices(t)
	alice := s.user(t, "alice")
	bob := s.user(t, "bob")
	p := s.project(t, "launch")

	root, err := s.messages.CreateMessage(&domain.CreateMessageRequest{Content: "kickoff", UserID: &alice.ID, ProjectID: &p.ID})
	require.NoError(t, err)
	assert.False(t, root.IsRead)
	assert.False(t, root.IsDeleted)
	assert.Equal(t, root.CreatedAt, root.UpdatedAt)

	first, err := s.messages.CreateMessage(&domain.CreateMessageRequest{Content: "on it", UserID: &bob.ID, ProjectID: &p.ID, ParentID: &root.ID})
	require.NoError(t, err)
	second, err := s.messages.CreateMessage(&domain.CreateMessageRequest{Content: "me too", UserID: &alice.ID, ProjectID: &p.ID, ParentID: &root.ID, MessageType: domain.MessageTypeAnswer})
	require.NoError(t, err)

	thread, err := s.messages.ListThread(root.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID, second.ID}, responseIDs(thread))

	listed, err := s.messages.ListMessages(domain.MessageFilter{ProjectID: &p.ID}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID, first.ID, root.ID}, responseIDs(listed))

	// replies may point at a deleted parent
	_, err = s.messages.DeleteMessage(root.ID)
	require.NoError(t, err)
	late, err := s.messages.CreateMessage(&domain.CreateMessageRequest{Content: "late", UserID: &bob.ID, ParentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, root.ID, *late.ParentID)
}

func TestScenario_DeleteLifecycle(t *testing.T) {
	s := newServices(t)
	alice := s.user(t, "alice")

	msg, err := s.messages.CreateMessage(&domain.CreateMessageRequest{Content: "oops", UserID: &alice.ID})
	require.NoError(t, err)

	deleted, err := s.messages.DeleteMessage(msg.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	_, err = s.messages.GetMessage(msg.ID)
	assert.ErrorIs(t, err, common.ErrMessageNotFound)

	_, err = s.messages.DeleteMessage(msg.ID)
	assert.ErrorIs(t, err, common.ErrMessageNotFound)

	all, err := s.messages.ListMessages(domain.MessageFilter{UserID: &alice.ID, IncludeDeleted: true}, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsDeleted)
}

func TestScenario_DirectConversation(t *testing.T) {
	s := newServices(t)
	a := s.user(t, "a")
	b := s.user(t, "b")

	m1, err := s.messages.CreateDirectMessage(&domain.CreateDirectMessageRequest{Content: "ping", UserID: b.ID, RecipientID: a.ID})
	require.NoError(t, err)
	assert.Nil(t, m1.ProjectID)
	assert.Equal(t, domain.MessageTypeDirectMessage, m1.MessageType)

	m2, err := s.messages.CreateMessage(&domain.CreateMessageRequest{Content: "pong", UserID: &a.ID, RecipientID: &b.ID, MessageType: domain.MessageTypeDirectMessage, ParentID: &m1.ID})
	require.NoError(t, err)
	m3, err := s.messages.CreateDirectMessage(&domain.CreateDirectMessageRequest{Content: "again", UserID: b.ID, RecipientID: a.ID})
	require.NoError(t, err)

	ab, err := s.messages.ListDirectMessages(a.ID, b.ID, 0, 0)
	require.NoError(t, err)
	ba, err := s.messages.ListDirectMessages(b.ID, a.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{m3.ID, m2.ID, m1.ID}, responseIDs(ab))
	assert.Equal(t, responseIDs(ab), responseIDs(ba))

	count, err := s.messages.CountUnread(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Unread)

	before := testutil.ToFloat64(messagesMarkedReadTotal)
	res, err := s.messages.MarkConversationAsRead(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.MessagesMarkedRead)
	assert.Equal(t, before+2, testutil.ToFloat64(messagesMarkedReadTotal))

	res, err = s.messages.MarkConversationAsRead(a.ID, b.ID)
	require.NoError(t, err)
	assert.Zero(t, res.MessagesMarkedRead)

	// b still has a's reply unread
	unread, err := s.messages.ListUnread(b.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{m2.ID}, responseIDs(unread))
}

func TestScenario_UpdateAndRead(t *testing.T) {
	s := newServices(t)
	a := s.user(t, "a")
	b := s.user(t, "b")

	msg, err := s.messages.CreateMessage(&domain.CreateMessageRequest{Content: "question?", UserID: &a.ID, RecipientID: &b.ID, MessageType: domain.MessageTypeQuestion})
	require.NoError(t, err)

	updated, err := s.messages.UpdateMessage(msg.ID, domain.MessageUpdate{Content: ptr("better question?")})
	require.NoError(t, err)
	assert.Equal(t, "better question?", updated.Content)
	assert.Equal(t, domain.MessageTypeQuestion, updated.MessageType)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	read, err := s.messages.MarkMessageAsRead(msg.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	// marking again is idempotent
	read, err = s.messages.MarkMessageAsRead(msg.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	count, err := s.messages.CountUnread(b.ID)
	require.NoError(t, err)
	assert.Zero(t, count.Unread)
}

func TestScenario_RecentMessages(t *testing.T) {
	s := newServices(t)
	a := s.user(t, "alice")
	p := s.project(t, "p")

	for _, text := range []string{"one", "two", "three"} {
		_, err := s.messages.CreateMessage(&domain.CreateMessageRequest{Content: text, UserID: &a.ID, ProjectID: &p.ID})
		require.NoError(t, err)
	}

	recent, err := s.messages.RecentMessages(RecentMessagesQuery{Limit: 2, ProjectID: &p.ID, IncludeUserInfo: true})
	require.NoError(t, err)
	assert.Equal(t, 2, recent.TotalCount)
	assert.Equal(t, 2, recent.Limit)
	require.NotNil(t, recent.Filters)
	assert.Equal(t, p.ID, *recent.Filters.ProjectID)
	assert.Equal(t, "three", recent.Messages[0].Content)
	require.NotNil(t, recent.Messages[0].User)
	assert.Equal(t, "alice", recent.Messages[0].User.Username)

	plain, err := s.messages.RecentMessages(RecentMessagesQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultRecentLimit, plain.Limit)
	assert.Nil(t, plain.Filters)
	assert.Nil(t, plain.Messages[0].User)
}

func TestScenario_UnknownReferencesAreNotFound(t *testing.T) {
	s := newServices(t)
	alice := s.user(t, "alice")
	p := s.project(t, "p")

	cases := []struct {
		name string
		req  domain.CreateMessageRequest
		want error
	}{
		{"author", domain.CreateMessageRequest{Content: "x", UserID: ptr(uint(999)), ProjectID: ptr(uint(777)), TaskID: ptr(uint(555))}, common.ErrUserNotFound},
		{"recipient", domain.CreateMessageRequest{Content: "x", UserID: &alice.ID, RecipientID: ptr(uint(4242)), MessageType: domain.MessageTypeQuestion}, common.ErrUserNotFound},
		{"dm recipient", domain.CreateMessageRequest{Content: "x", UserID: &alice.ID, RecipientID: ptr(uint(4242)), MessageType: domain.MessageTypeDirectMessage}, common.ErrUserNotFound},
		{"project", domain.CreateMessageRequest{Content: "x", UserID: &alice.ID, ProjectID: ptr(uint(777))}, common.ErrProjectNotFound},
		{"task", domain.CreateMessageRequest{Content: "x", UserID: &alice.ID, ProjectID: &p.ID, TaskID: ptr(uint(555))}, common.ErrTaskNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := s.messages.CreateMessage(&req)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, common.ErrNotFound)
		})
	}

	_, err := s.messages.CreateDirectMessage(&domain.CreateDirectMessageRequest{Content: "x", UserID: alice.ID, RecipientID: 4242})
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	_, err = s.messages.CreateDirectMessage(&domain.CreateDirectMessageRequest{Content: "x", UserID: 4242, RecipientID: alice.ID})
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	_, err = s.messages.CreateDirectMessage(&domain.CreateDirectMessageRequest{Content: "x", UserID: 0, RecipientID: alice.ID})
	assertField(t, err, "user_id")

	stored, err := s.messages.ListMessages(domain.MessageFilter{IncludeDeleted: true}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

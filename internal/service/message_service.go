package service

import (
	"errors"
	"fmt"

	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/repository"
	"github.com/teamlog/teamlog-backend/pkg/logger"
)

// DefaultRecentLimit size of the recent-messages view
const DefaultRecentLimit = 50

// RecentMessagesQuery parameters of the recent-messages view
type RecentMessagesQuery struct {
	Limit           int
	ProjectID       *uint
	TaskID          *uint
	UserID          *uint
	MessageType     *domain.MessageType
	IncludeUserInfo bool
}

// MessageService business logic for project messages, thread replies and direct messages
type MessageService interface {
	CreateMessage(req *domain.CreateMessageRequest) (*domain.MessageResponse, error)
	CreateDirectMessage(req *domain.CreateDirectMessageRequest) (*domain.MessageResponse, error)
	GetMessage(id uint) (*domain.MessageResponse, error)
	ListMessages(filter domain.MessageFilter, skip, limit int) ([]*domain.MessageResponse, error)
	ListDirectMessages(userID, otherUserID uint, skip, limit int) ([]*domain.MessageResponse, error)
	ListThread(parentID uint, skip, limit int) ([]*domain.MessageResponse, error)
	ListUnread(userID uint, messageType *domain.MessageType) ([]*domain.MessageResponse, error)
	CountUnread(userID uint) (*domain.UnreadCountResponse, error)
	RecentMessages(q RecentMessagesQuery) (*domain.RecentMessagesResponse, error)
	UpdateMessage(id uint, update domain.MessageUpdate) (*domain.MessageResponse, error)
	MarkMessageAsRead(id uint) (*domain.MessageResponse, error)
	MarkConversationAsRead(userID, otherUserID uint) (*domain.ConversationReadResponse, error)
	DeleteMessage(id uint) (*domain.MessageResponse, error)
}

type messageService struct {
	repo        repository.MessageRepository
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewMessageService creates a new MessageService
func NewMessageService(
	repo repository.MessageRepository,
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
) MessageService {
	return &messageService{
		repo:        repo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

func (s *messageService) reject(op string, err error) error {
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		messageRejectionsTotal.WithLabelValues(verr.Field).Inc()
		logger.GetLogger().Debug().Str("op", op).Str("field", verr.Field).Msg(verr.Message)
	}
	return err
}

func (s *messageService) storeFailure(op string, err error) error {
	logger.GetLogger().Error().Err(err).Str("op", op).Msg("message store failure")
	return err
}

// references are the ids a new message points at; nil means not set
type references struct {
	author    uint
	recipient *uint
	project   *uint
	task      *uint
	parent    *uint
}

// checkReferences resolves every referenced record before the insert
func (s *messageService) checkReferences(op string, refs references) error {
	users := []uint{refs.author}
	if refs.recipient != nil {
		users = append(users, *refs.recipient)
	}
	for _, id := range users {
		user, err := s.userRepo.FindByID(id)
		if err != nil {
			return s.storeFailure(op, err)
		}
		if user == nil {
			return fmt.Errorf("%w: %d", common.ErrUserNotFound, id)
		}
	}

	if refs.project != nil {
		project, err := s.projectRepo.FindByID(*refs.project)
		if err != nil {
			return s.storeFailure(op, err)
		}
		if project == nil {
			return fmt.Errorf("%w: %d", common.ErrProjectNotFound, *refs.project)
		}
	}

	if refs.task != nil {
		task, err := s.taskRepo.FindByID(*refs.task)
		if err != nil {
			return s.storeFailure(op, err)
		}
		if task == nil {
			return fmt.Errorf("%w: %d", common.ErrTaskNotFound, *refs.task)
		}
	}

	return s.checkParent(refs.parent)
}

func (s *messageService) checkParent(parentID *uint) error {
	if parentID == nil {
		return nil
	}
	ok, err := s.repo.Exists(*parentID)
	if err != nil {
		return s.storeFailure("check_parent", err)
	}
	if !ok {
		return common.NewValidationError("parent_id", fmt.Sprintf("parent message %d does not exist", *parentID))
	}
	return nil
}

// CreateMessage validates addressing rules and persists a message of any type
func (s *messageService) CreateMessage(req *domain.CreateMessageRequest) (*domain.MessageResponse, error) {
	if err := validateContent(req.Content); err != nil {
		return nil, s.reject("create_message", err)
	}
	if req.UserID == nil {
		return nil, s.reject("create_message", common.NewValidationError("user_id", "user ID is required"))
	}
	if req.MessageType == "" {
		req.MessageType = domain.MessageTypeComment
	}
	if !req.MessageType.Valid() {
		return nil, s.reject("create_message", common.NewValidationError("message_type", fmt.Sprintf("unknown message type %q", req.MessageType)))
	}
	addr, err := resolveAddressing(req)
	if err != nil {
		return nil, s.reject("create_message", err)
	}
	refs := references{
		author:    *req.UserID,
		recipient: req.RecipientID,
		project:   req.ProjectID,
		task:      req.TaskID,
		parent:    req.ParentID,
	}
	if err := s.checkReferences("create_message", refs); err != nil {
		return nil, s.reject("create_message", err)
	}

	msg := &domain.Message{
		Content:     req.Content,
		MessageType: req.MessageType,
		UserID:      *req.UserID,
		ParentID:    req.ParentID,
	}
	addr.apply(msg)

	if err := s.repo.Create(msg); err != nil {
		return nil, s.storeFailure("create_message", err)
	}
	messagesCreatedTotal.WithLabelValues(string(msg.MessageType)).Inc()
	return msg.ToResponse(), nil
}

// CreateDirectMessage sends a one-to-one message
func (s *messageService) CreateDirectMessage(req *domain.CreateDirectMessageRequest) (*domain.MessageResponse, error) {
	if err := validateContent(req.Content); err != nil {
		return nil, s.reject("create_direct_message", err)
	}
	if req.UserID == 0 {
		return nil, s.reject("create_direct_message", common.NewValidationError("user_id", "user ID is required"))
	}
	if req.RecipientID == 0 {
		return nil, s.reject("create_direct_message", common.NewValidationError("recipient_id", "recipient is required for direct messages"))
	}
	if req.UserID == req.RecipientID {
		return nil, s.reject("create_direct_message", common.NewValidationError("recipient_id", "cannot send direct message to yourself"))
	}
	refs := references{author: req.UserID, recipient: &req.RecipientID, parent: req.ParentID}
	if err := s.checkReferences("create_direct_message", refs); err != nil {
		return nil, s.reject("create_direct_message", err)
	}

	msg, err := s.repo.CreateDirect(req.Content, req.UserID, req.RecipientID, req.ParentID)
	if err != nil {
		return nil, s.storeFailure("create_direct_message", err)
	}
	messagesCreatedTotal.WithLabelValues(string(domain.MessageTypeDirectMessage)).Inc()
	return msg.ToResponse(), nil
}

// GetMessage returns a live message or ErrMessageNotFound
func (s *messageService) GetMessage(id uint) (*domain.MessageResponse, error) {
	msg, err := s.repo.FindByID(id)
	if err != nil {
		return nil, s.storeFailure("get_message", err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: %d", common.ErrMessageNotFound, id)
	}
	return msg.ToResponse(), nil
}

// ListMessages returns filtered messages, newest first
func (s *messageService) ListMessages(filter domain.MessageFilter, skip, limit int) ([]*domain.MessageResponse, error) {
	messages, err := s.repo.List(filter, skip, limit)
	if err != nil {
		return nil, s.storeFailure("list_messages", err)
	}
	return domain.ToMessageResponses(messages), nil
}

// ListDirectMessages returns the conversation between two users, newest first
func (s *messageService) ListDirectMessages(userID, otherUserID uint, skip, limit int) ([]*domain.MessageResponse, error) {
	messages, err := s.repo.ListDirect(userID, otherUserID, skip, limit)
	if err != nil {
		return nil, s.storeFailure("list_direct_messages", err)
	}
	return domain.ToMessageResponses(messages), nil
}

// ListThread returns the replies of parentID, oldest first
func (s *messageService) ListThread(parentID uint, skip, limit int) ([]*domain.MessageResponse, error) {
	messages, err := s.repo.ListThread(parentID, skip, limit)
	if err != nil {
		return nil, s.storeFailure("list_thread", err)
	}
	return domain.ToMessageResponses(messages), nil
}

// ListUnread returns unread messages addressed to userID
func (s *messageService) ListUnread(userID uint, messageType *domain.MessageType) ([]*domain.MessageResponse, error) {
	messages, err := s.repo.ListUnread(userID, messageType)
	if err != nil {
		return nil, s.storeFailure("list_unread", err)
	}
	return domain.ToMessageResponses(messages), nil
}

// CountUnread returns the unread counter for polling clients
func (s *messageService) CountUnread(userID uint) (*domain.UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(userID)
	if err != nil {
		return nil, s.storeFailure("count_unread", err)
	}
	return &domain.UnreadCountResponse{UserID: userID, Unread: count}, nil
}

// RecentMessages builds the recent-messages view, optionally attaching author info
func (s *messageService) RecentMessages(q RecentMessagesQuery) (*domain.RecentMessagesResponse, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultRecentLimit
	}
	filter := domain.MessageFilter{
		ProjectID:   q.ProjectID,
		TaskID:      q.TaskID,
		UserID:      q.UserID,
		MessageType: q.MessageType,
	}
	messages, err := s.repo.List(filter, 0, q.Limit)
	if err != nil {
		return nil, s.storeFailure("recent_messages", err)
	}

	views := domain.ToMessageResponses(messages)
	if q.IncludeUserInfo && len(views) > 0 {
		ids := make([]uint, 0, len(views))
		for _, v := range views {
			ids = append(ids, v.UserID)
		}
		users, err := s.userRepo.FindByIDs(ids)
		if err != nil {
			return nil, s.storeFailure("recent_messages", err)
		}
		for _, v := range views {
			if u, ok := users[v.UserID]; ok {
				v.User = &domain.MessageAuthor{ID: u.ID, Username: u.Username, Email: u.Email}
			}
		}
	}

	resp := &domain.RecentMessagesResponse{
		Messages:   views,
		TotalCount: len(views),
		Limit:      q.Limit,
	}
	if q.ProjectID != nil || q.TaskID != nil || q.UserID != nil || q.MessageType != nil {
		resp.Filters = &domain.RecentMessagesFilters{
			ProjectID:   q.ProjectID,
			TaskID:      q.TaskID,
			UserID:      q.UserID,
			MessageType: q.MessageType,
		}
	}
	return resp, nil
}

func (s *messageService) mutate(op string, id uint, apply func() (*domain.Message, error)) (*domain.MessageResponse, error) {
	msg, err := apply()
	if err != nil {
		return nil, s.storeFailure(op, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: %d", common.ErrMessageNotFound, id)
	}
	return msg.ToResponse(), nil
}

// UpdateMessage applies a partial update to a live message
func (s *messageService) UpdateMessage(id uint, update domain.MessageUpdate) (*domain.MessageResponse, error) {
	if update.Content != nil {
		if err := validateContent(*update.Content); err != nil {
			return nil, s.reject("update_message", err)
		}
	}
	if update.MessageType != nil && (!update.MessageType.Valid() || update.MessageType.IsDirect()) {
		return nil, s.reject("update_message", common.NewValidationError("message_type", fmt.Sprintf("cannot change message type to %q", *update.MessageType)))
	}

	msg, err := s.repo.UpdateFields(id, update)
	if errors.Is(err, repository.ErrMessageTypeLocked) {
		return nil, s.reject("update_message", common.NewValidationError("message_type", "direct messages keep their type"))
	}
	return s.mutate("update_message", id, func() (*domain.Message, error) {
		return msg, err
	})
}

// MarkMessageAsRead marks a single message read
func (s *messageService) MarkMessageAsRead(id uint) (*domain.MessageResponse, error) {
	resp, err := s.mutate("mark_read", id, func() (*domain.Message, error) {
		return s.repo.MarkRead(id)
	})
	if err == nil {
		messagesMarkedReadTotal.Inc()
	}
	return resp, err
}

// MarkConversationAsRead marks everything otherUserID sent to userID as read
func (s *messageService) MarkConversationAsRead(userID, otherUserID uint) (*domain.ConversationReadResponse, error) {
	count, err := s.repo.MarkConversationRead(userID, otherUserID)
	if err != nil {
		return nil, s.storeFailure("mark_conversation_read", err)
	}
	messagesMarkedReadTotal.Add(float64(count))
	return &domain.ConversationReadResponse{MessagesMarkedRead: count}, nil
}

// DeleteMessage soft-deletes a message
func (s *messageService) DeleteMessage(id uint) (*domain.MessageResponse, error) {
	return s.mutate("delete_message", id, func() (*domain.Message, error) {
		return s.repo.MarkDeleted(id)
	})
}

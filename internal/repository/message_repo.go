package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamlog/teamlog-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLimit is applied when a caller passes a non-positive limit
const DefaultLimit = 100

// ErrMessageTypeLocked is returned by UpdateFields when an update would move a message
// into or out of direct_message
var ErrMessageTypeLocked = errors.New("message type cannot cross the direct message boundary")

// MessageRepository message data access interface.
// Lookups return (nil, nil) when the record is absent; callers decide whether that is an error.
type MessageRepository interface {
	FindByID(id uint) (*domain.Message, error)
	Exists(id uint) (bool, error)
	List(filter domain.MessageFilter, skip, limit int) ([]*domain.Message, error)
	ListDirect(userA, userB uint, skip, limit int) ([]*domain.Message, error)
	ListThread(parentID uint, skip, limit int) ([]*domain.Message, error)
	ListUnread(userID uint, messageType *domain.MessageType) ([]*domain.Message, error)
	CountUnread(userID uint) (int64, error)
	CountByAuthor(userID uint) (int64, error)
	Create(msg *domain.Message) error
	CreateDirect(content string, senderID, recipientID uint, parentID *uint) (*domain.Message, error)
	UpdateFields(id uint, update domain.MessageUpdate) (*domain.Message, error)
	MarkRead(id uint) (*domain.Message, error)
	MarkDeleted(id uint) (*domain.Message, error)
	MarkConversationRead(userID, otherUserID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func paginate(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return skip, limit
}

// FindByID returns a live message, or nil when absent or soft-deleted
func (r *messageRepository) FindByID(id uint) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find message %d: %w", id, err)
	}
	return &msg, nil
}

// Exists reports whether any record (live or soft-deleted) carries id
func (r *messageRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.Message{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check message %d: %w", id, err)
	}
	return count > 0, nil
}

// List applies every non-nil filter with AND semantics, newest first
func (r *messageRepository) List(filter domain.MessageFilter, skip, limit int) ([]*domain.Message, error) {
	skip, limit = paginate(skip, limit)
	query := r.db.Model(&domain.Message{})

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.RecipientID != nil {
		query = query.Where("recipient_id = ?", *filter.RecipientID)
	}
	if filter.MessageType != nil {
		query = query.Where("message_type = ?", *filter.MessageType)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var messages []*domain.Message
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// ListDirect returns the conversation between two users in either direction, newest first
func (r *messageRepository) ListDirect(userA, userB uint, skip, limit int) ([]*domain.Message, error) {
	skip, limit = paginate(skip, limit)

	var messages []*domain.Message
	err := r.db.
		Where("message_type = ? AND is_deleted = ?", domain.MessageTypeDirectMessage, false).
		Where(r.db.Where("user_id = ? AND recipient_id = ?", userA, userB).
			Or("user_id = ? AND recipient_id = ?", userB, userA)).
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list direct messages %d<->%d: %w", userA, userB, err)
	}
	return messages, nil
}

// ListThread returns the direct replies of parentID in reading order (oldest first)
func (r *messageRepository) ListThread(parentID uint, skip, limit int) ([]*domain.Message, error) {
	skip, limit = paginate(skip, limit)

	var messages []*domain.Message
	err := r.db.
		Where("parent_id = ? AND is_deleted = ?", parentID, false).
		Order("created_at ASC").Order("id ASC").
		Offset(skip).Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list thread %d: %w", parentID, err)
	}
	return messages, nil
}

func (r *messageRepository) unreadQuery(userID uint) *gorm.DB {
	return r.db.Model(&domain.Message{}).
		Where("recipient_id = ? AND is_read = ? AND is_deleted = ?", userID, false, false)
}

// ListUnread returns every unread live message addressed to userID, newest first. No limit is applied.
func (r *messageRepository) ListUnread(userID uint, messageType *domain.MessageType) ([]*domain.Message, error) {
	query := r.unreadQuery(userID)
	if messageType != nil {
		query = query.Where("message_type = ?", *messageType)
	}

	var messages []*domain.Message
	if err := query.Order("created_at DESC").Order("id DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list unread for %d: %w", userID, err)
	}
	return messages, nil
}

// CountUnread counts what ListUnread would return without a type filter
func (r *messageRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	if err := r.unreadQuery(userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count unread for %d: %w", userID, err)
	}
	return count, nil
}

// CountByAuthor counts live messages written by userID
func (r *messageRepository) CountByAuthor(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count messages by %d: %w", userID, err)
	}
	return count, nil
}

// Create inserts msg as unread and live; created_at and updated_at share one timestamp
func (r *messageRepository) Create(msg *domain.Message) error {
	now := time.Now().UTC()
	msg.ID = 0
	msg.IsRead = false
	msg.IsDeleted = false
	msg.CreatedAt = now
	msg.UpdatedAt = now

	if err := r.db.Omit(clause.Associations).Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// CreateDirect creates a direct message; project and task scope are always cleared
func (r *messageRepository) CreateDirect(content string, senderID, recipientID uint, parentID *uint) (*domain.Message, error) {
	msg := &domain.Message{
		Content:     content,
		MessageType: domain.MessageTypeDirectMessage,
		UserID:      senderID,
		RecipientID: &recipientID,
		ParentID:    parentID,
		ProjectID:   nil,
		TaskID:      nil,
	}
	if err := r.Create(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// UpdateFields applies the non-nil fields of update to the live message id in one transaction.
// Returns nil when no live message matches, and ErrMessageTypeLocked when a type change
// would turn a message into a direct message or back.
func (r *messageRepository) UpdateFields(id uint, update domain.MessageUpdate) (*domain.Message, error) {
	var updated *domain.Message
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var msg domain.Message
		err := tx.Where("id = ? AND is_deleted = ?", id, false).First(&msg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if update.MessageType != nil && update.MessageType.IsDirect() != msg.MessageType.IsDirect() {
			return ErrMessageTypeLocked
		}

		cols := update.Columns()
		cols["updated_at"] = time.Now().UTC()
		if err := tx.Model(&domain.Message{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}

		if err := tx.Where("id = ?", id).First(&msg).Error; err != nil {
			return err
		}
		updated = &msg
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update message %d: %w", id, err)
	}
	return updated, nil
}

// MarkRead sets is_read on the live message id
func (r *messageRepository) MarkRead(id uint) (*domain.Message, error) {
	read := true
	return r.UpdateFields(id, domain.MessageUpdate{IsRead: &read})
}

// MarkDeleted soft-deletes the live message id
func (r *messageRepository) MarkDeleted(id uint) (*domain.Message, error) {
	deleted := true
	return r.UpdateFields(id, domain.MessageUpdate{IsDeleted: &deleted})
}

// MarkConversationRead marks everything otherUserID sent to userID as read in a single statement
func (r *messageRepository) MarkConversationRead(userID, otherUserID uint) (int64, error) {
	result := r.db.Model(&domain.Message{}).
		Where("user_id = ? AND recipient_id = ? AND is_read = ? AND is_deleted = ?", otherUserID, userID, false, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("mark conversation %d<-%d read: %w", userID, otherUserID, result.Error)
	}
	return result.RowsAffected, nil
}

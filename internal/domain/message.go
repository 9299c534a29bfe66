package domain

import "time"

// MessageType classifies a message
type MessageType string

const (
	MessageTypeStatusUpdate  MessageType = "status_update"
	MessageTypeComment       MessageType = "comment"
	MessageTypeQuestion      MessageType = "question"
	MessageTypeAnswer        MessageType = "answer"
	MessageTypeAnnouncement  MessageType = "announcement"
	MessageTypeDirectMessage MessageType = "direct_message"
	MessageTypeTaskUpdate    MessageType = "task_update"
	MessageTypeStatusChange  MessageType = "status_change"
)

// MessageTypes lists every accepted message type
var MessageTypes = []MessageType{
	MessageTypeStatusUpdate,
	MessageTypeComment,
	MessageTypeQuestion,
	MessageTypeAnswer,
	MessageTypeAnnouncement,
	MessageTypeDirectMessage,
	MessageTypeTaskUpdate,
	MessageTypeStatusChange,
}

// Valid reports whether t is a known message type
func (t MessageType) Valid() bool {
	for _, known := range MessageTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsDirect reports whether t addresses a single recipient
func (t MessageType) IsDirect() bool {
	return t == MessageTypeDirectMessage
}

// Message is the unified project comment / task update / thread reply / direct message record.
// Parent and replies are resolved through the repository by id, never embedded.
type Message struct {
	ID          uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Content     string      `gorm:"column:content;type:text;not null" json:"content"`
	MessageType MessageType `gorm:"column:message_type;size:50;not null;index" json:"message_type"`
	UserID      uint        `gorm:"column:user_id;not null;index" json:"user_id"`
	RecipientID *uint       `gorm:"column:recipient_id;index" json:"recipient_id"`
	ProjectID   *uint       `gorm:"column:project_id;index" json:"project_id"`
	TaskID      *uint       `gorm:"column:task_id;index" json:"task_id"`
	ParentID    *uint       `gorm:"column:parent_id;index" json:"parent_id"`
	IsRead      bool        `gorm:"column:is_read;not null;default:false" json:"is_read"`
	IsDeleted   bool        `gorm:"column:is_deleted;not null;default:false;index" json:"is_deleted"`
	CreatedAt   time.Time   `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;not null" json:"updated_at"`

	Author    *User    `gorm:"foreignKey:UserID" json:"-"`
	Recipient *User    `gorm:"foreignKey:RecipientID" json:"-"`
	Project   *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"-"`
	Task      *Task    `gorm:"foreignKey:TaskID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageFilter selects messages for List. Nil fields are not applied.
type MessageFilter struct {
	ProjectID      *uint
	TaskID         *uint
	UserID         *uint
	RecipientID    *uint
	MessageType    *MessageType
	ParentID       *uint
	IncludeDeleted bool
}

// MessageUpdate is a partial update; nil fields are left untouched
type MessageUpdate struct {
	Content     *string      `json:"content,omitempty"`
	MessageType *MessageType `json:"message_type,omitempty"`
	IsRead      *bool        `json:"is_read,omitempty"`
	IsDeleted   *bool        `json:"is_deleted,omitempty"`
}

// Columns converts the non-nil fields into a column map
func (u MessageUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Content != nil {
		cols["content"] = *u.Content
	}
	if u.MessageType != nil {
		cols["message_type"] = *u.MessageType
	}
	if u.IsRead != nil {
		cols["is_read"] = *u.IsRead
	}
	if u.IsDeleted != nil {
		cols["is_deleted"] = *u.IsDeleted
	}
	return cols
}

// CreateMessageRequest generic create payload (project/task/comment messages and DMs)
type CreateMessageRequest struct {
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
	UserID      *uint       `json:"user_id" validate:"omitempty,gt=0"`
	ProjectID   *uint       `json:"project_id,omitempty" validate:"omitempty,gt=0"`
	TaskID      *uint       `json:"task_id,omitempty" validate:"omitempty,gt=0"`
	ParentID    *uint       `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	RecipientID *uint       `json:"recipient_id,omitempty" validate:"omitempty,gt=0"`
}

// CreateDirectMessageRequest direct message payload
type CreateDirectMessageRequest struct {
	Content     string `json:"content"`
	UserID      uint   `json:"user_id" binding:"required"`
	RecipientID uint   `json:"recipient_id" binding:"required"`
	ParentID    *uint  `json:"parent_id,omitempty"`
}

// MarkConversationReadRequest marks everything other_user_id sent to user_id as read
type MarkConversationReadRequest struct {
	UserID      uint `json:"user_id" binding:"required"`
	OtherUserID uint `json:"other_user_id" binding:"required"`
}

// MessageAuthor is the author summary attached to recent-message views
type MessageAuthor struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// MessageResponse full projection of a message record
type MessageResponse struct {
	ID          uint           `json:"id"`
	Content     string         `json:"content"`
	MessageType MessageType    `json:"message_type"`
	UserID      uint           `json:"user_id"`
	RecipientID *uint          `json:"recipient_id"`
	ProjectID   *uint          `json:"project_id"`
	TaskID      *uint          `json:"task_id"`
	ParentID    *uint          `json:"parent_id"`
	IsRead      bool           `json:"is_read"`
	IsDeleted   bool           `json:"is_deleted"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	User        *MessageAuthor `json:"user,omitempty"`
}

// ToResponse converts Message to MessageResponse
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:          m.ID,
		Content:     m.Content,
		MessageType: m.MessageType,
		UserID:      m.UserID,
		RecipientID: m.RecipientID,
		ProjectID:   m.ProjectID,
		TaskID:      m.TaskID,
		ParentID:    m.ParentID,
		IsRead:      m.IsRead,
		IsDeleted:   m.IsDeleted,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToMessageResponses converts a slice of messages
func ToMessageResponses(messages []*Message) []*MessageResponse {
	out := make([]*MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = m.ToResponse()
	}
	return out
}

// RecentMessagesFilters echoes the filters applied to a recent-messages view
type RecentMessagesFilters struct {
	ProjectID   *uint        `json:"project_id,omitempty"`
	TaskID      *uint        `json:"task_id,omitempty"`
	UserID      *uint        `json:"user_id,omitempty"`
	MessageType *MessageType `json:"message_type,omitempty"`
}

// RecentMessagesResponse recent messages resource
type RecentMessagesResponse struct {
	Messages   []*MessageResponse     `json:"messages"`
	TotalCount int                    `json:"total_count"`
	Limit      int                    `json:"limit"`
	Filters    *RecentMessagesFilters `json:"filters,omitempty"`
}

// ConversationReadResponse result of marking a conversation read
type ConversationReadResponse struct {
	MessagesMarkedRead int64 `json:"messages_marked_read"`
}

// UnreadCountResponse unread counter for polling clients
type UnreadCountResponse struct {
	UserID uint  `json:"user_id"`
	Unread int64 `json:"unread"`
}

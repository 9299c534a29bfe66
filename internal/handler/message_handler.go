package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/config"
	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/internal/service"
	"github.com/teamlog/teamlog-backend/pkg/ginutil"
)

// MessageHandler handles project message, thread and direct message requests
type MessageHandler struct {
	service service.MessageService
	limits  config.MessagingConfig
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService, limits config.MessagingConfig) *MessageHandler {
	return &MessageHandler{service: service, limits: limits}
}

func (h *MessageHandler) page(c *gin.Context) (int, int) {
	skip := ginutil.QueryInt(c, "skip", 0)
	if skip < 0 {
		skip = 0
	}
	limit := ginutil.QueryInt(c, "limit", h.limits.DefaultLimit)
	if limit <= 0 {
		limit = h.limits.DefaultLimit
	}
	return skip, limit
}

func messageID(c *gin.Context) (uint, bool) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid message ID", err)
		return 0, false
	}
	return id, true
}

// queryMessageType parses an optional message_type; unknown values are rejected
func queryMessageType(c *gin.Context) (*domain.MessageType, bool) {
	raw := c.Query("message_type")
	if raw == "" {
		return nil, true
	}
	t := domain.MessageType(raw)
	if !t.Valid() {
		common.HandleError(c, common.NewValidationError("message_type", fmt.Sprintf("unknown message type %q", raw)))
		return nil, false
	}
	return &t, true
}

// Create handles POST /messages
func (h *MessageHandler) Create(c *gin.Context) {
	var req domain.CreateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.service.CreateMessage(&req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, msg)
}

// List handles GET /messages
func (h *MessageHandler) List(c *gin.Context) {
	messageType, ok := queryMessageType(c)
	if !ok {
		return
	}
	filter := domain.MessageFilter{
		ProjectID:      ginutil.QueryUintPtr(c, "project_id"),
		TaskID:         ginutil.QueryUintPtr(c, "task_id"),
		UserID:         ginutil.QueryUintPtr(c, "user_id"),
		RecipientID:    ginutil.QueryUintPtr(c, "recipient_id"),
		ParentID:       ginutil.QueryUintPtr(c, "parent_id"),
		MessageType:    messageType,
		IncludeDeleted: ginutil.QueryBool(c, "include_deleted", false),
	}
	skip, limit := h.page(c)

	messages, err := h.service.ListMessages(filter, skip, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, messages, &common.Meta{Skip: skip, Limit: limit, Count: len(messages)})
}

// Recent handles GET /messages/recent
func (h *MessageHandler) Recent(c *gin.Context) {
	messageType, ok := queryMessageType(c)
	if !ok {
		return
	}
	q := service.RecentMessagesQuery{
		Limit:           ginutil.QueryInt(c, "limit", h.limits.RecentLimit),
		ProjectID:       ginutil.QueryUintPtr(c, "project_id"),
		TaskID:          ginutil.QueryUintPtr(c, "task_id"),
		UserID:          ginutil.QueryUintPtr(c, "user_id"),
		MessageType:     messageType,
		IncludeUserInfo: ginutil.QueryBool(c, "include_user_info", false),
	}

	recent, err := h.service.RecentMessages(q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, recent, nil)
}

// Get handles GET /messages/:id
func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	msg, err := h.service.GetMessage(id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, msg, nil)
}

// Update handles PATCH /messages/:id
func (h *MessageHandler) Update(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	var update domain.MessageUpdate
	if !bindJSON(c, &update) {
		return
	}

	msg, err := h.service.UpdateMessage(id, update)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, msg, nil)
}

// Delete handles DELETE /messages/:id (soft delete)
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	msg, err := h.service.DeleteMessage(id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, msg, nil)
}

// MarkRead handles POST /messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	msg, err := h.service.MarkMessageAsRead(id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, msg, nil)
}

// Thread handles GET /messages/:id/thread
func (h *MessageHandler) Thread(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	skip, limit := h.page(c)

	replies, err := h.service.ListThread(id, skip, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, replies, &common.Meta{Skip: skip, Limit: limit, Count: len(replies)})
}

// CreateDirect handles POST /direct-messages
func (h *MessageHandler) CreateDirect(c *gin.Context) {
	var req domain.CreateDirectMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.service.CreateDirectMessage(&req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, msg)
}

// ListDirect handles GET /direct-messages?user_id=&other_user_id=
func (h *MessageHandler) ListDirect(c *gin.Context) {
	userID := ginutil.QueryUintPtr(c, "user_id")
	otherID := ginutil.QueryUintPtr(c, "other_user_id")
	if userID == nil || otherID == nil {
		common.HandleError(c, common.NewValidationError("user_id", "user_id and other_user_id are required"))
		return
	}
	skip, limit := h.page(c)

	messages, err := h.service.ListDirectMessages(*userID, *otherID, skip, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, messages, &common.Meta{Skip: skip, Limit: limit, Count: len(messages)})
}

// MarkConversationRead handles POST /direct-messages/read
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	var req domain.MarkConversationReadRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.MarkConversationAsRead(req.UserID, req.OtherUserID)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, res, nil)
}

// Unread handles GET /users/:id/unread
func (h *MessageHandler) Unread(c *gin.Context) {
	userID, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}
	messageType, ok := queryMessageType(c)
	if !ok {
		return
	}

	messages, err := h.service.ListUnread(userID, messageType)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, messages, nil)
}

// UnreadCount handles GET /users/:id/unread/count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}

	res, err := h.service.CountUnread(userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, res, nil)
}

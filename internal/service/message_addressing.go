package service

import (
	"strings"

	"github.com/teamlog/teamlog-backend/internal/common"
	"github.com/teamlog/teamlog-backend/internal/domain"
)

// addressing is the validated delivery mode of a new message.
// Exactly one implementation exists per mode so a direct message can never carry project or task scope.
type addressing interface {
	apply(msg *domain.Message)
}

// scopedAddressing covers project broadcasts, task updates and their thread replies
type scopedAddressing struct {
	projectID   *uint
	taskID      *uint
	recipientID *uint
}

func (a scopedAddressing) apply(msg *domain.Message) {
	msg.ProjectID = a.projectID
	msg.TaskID = a.taskID
	msg.RecipientID = a.recipientID
}

// directAddressing is a one-to-one message with no project or task
type directAddressing struct {
	recipientID uint
}

func (a directAddressing) apply(msg *domain.Message) {
	recipient := a.recipientID
	msg.RecipientID = &recipient
	msg.ProjectID = nil
	msg.TaskID = nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return common.NewValidationError("content", "message content is required")
	}
	return nil
}

// resolveAddressing checks the cross-field rules of a create request without touching the store
func resolveAddressing(req *domain.CreateMessageRequest) (addressing, error) {
	if !req.MessageType.IsDirect() {
		return scopedAddressing{projectID: req.ProjectID, taskID: req.TaskID, recipientID: req.RecipientID}, nil
	}

	if req.RecipientID == nil {
		return nil, common.NewValidationError("recipient_id", "recipient is required for direct messages")
	}
	if req.ProjectID != nil || req.TaskID != nil {
		return nil, common.NewValidationError("project_id", "direct messages cannot belong to projects or tasks")
	}
	if *req.RecipientID == *req.UserID {
		return nil, common.NewValidationError("recipient_id", "cannot send direct message to yourself")
	}
	return directAddressing{recipientID: *req.RecipientID}, nil
}

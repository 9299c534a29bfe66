package domain

import "time"

// TaskStatus task lifecycle state
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// Task belongs to a project and may be assigned to a user
type Task struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"column:title;size:255;not null" json:"title"`
	Description *string    `gorm:"column:description;type:text" json:"description"`
	Status      TaskStatus `gorm:"column:status;size:50;not null;default:pending;index" json:"status"`
	ProjectID   uint       `gorm:"column:project_id;not null;index" json:"project_id"`
	AssigneeID  *uint      `gorm:"column:assignee_id;index" json:"assignee_id"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`

	Project  *Project `gorm:"foreignKey:ProjectID" json:"-"`
	Assignee *User    `gorm:"foreignKey:AssigneeID" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// CreateTaskRequest create task payload
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	ProjectID   uint       `json:"project_id" binding:"required"`
	AssigneeID  *uint      `json:"assignee_id,omitempty"`
}

// UpdateTaskRequest partial task update
type UpdateTaskRequest struct {
	Title       *string     `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	AssigneeID  *uint       `json:"assignee_id,omitempty"`
}

// TaskFilter list filters
type TaskFilter struct {
	ProjectID *uint
	Status    *TaskStatus
}

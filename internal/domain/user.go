package domain

import "time"

// User is a team member; authors and receives messages
type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"column:username;size:100;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// CreateUserRequest create user payload
type CreateUserRequest struct {
	Username string `json:"username" binding:"required" validate:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required" validate:"required,email,max=255"`
}

// UserFilter list filters
type UserFilter struct {
	Username string
	Email    string
}

// UserResource user view with activity counters
type UserResource struct {
	*User
	MessageCount      *int64 `json:"message_count,omitempty"`
	AssignedTaskCount *int64 `json:"assigned_task_count,omitempty"`
}

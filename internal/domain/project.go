package domain

import "time"

// Project groups tasks and project-scoped messages
type Project struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;size:255;not null" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// CreateProjectRequest create project payload
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
}

// UpdateProjectRequest partial project update
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
}

// ProjectResource project view, optionally with its tasks
type ProjectResource struct {
	*Project
	Tasks []*Task `json:"tasks,omitempty"`
}

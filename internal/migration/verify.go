package migration

import (
	"fmt"

	"github.com/teamlog/teamlog-backend/internal/domain"
	"gorm.io/gorm"
)

// Issue is one data integrity violation found by Verify
type Issue struct {
	Check string
	Count int64
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %d rows", i.Check, i.Count)
}

type integrityCheck struct {
	name  string
	query func(db *gorm.DB) *gorm.DB
}

var integrityChecks = []integrityCheck{
	{
		name: "direct messages with project or task scope",
		query: func(db *gorm.DB) *gorm.DB {
			return db.Model(&domain.Message{}).
				Where("message_type = ?", domain.MessageTypeDirectMessage).
				Where("project_id IS NOT NULL OR task_id IS NOT NULL")
		},
	},
	{
		name: "direct messages without recipient",
		query: func(db *gorm.DB) *gorm.DB {
			return db.Model(&domain.Message{}).
				Where("message_type = ? AND recipient_id IS NULL", domain.MessageTypeDirectMessage)
		},
	},
	{
		name: "replies whose parent does not exist",
		query: func(db *gorm.DB) *gorm.DB {
			return db.Table("messages AS m").
				Where("m.parent_id IS NOT NULL").
				Where("NOT EXISTS (SELECT 1 FROM messages p WHERE p.id = m.parent_id)")
		},
	},
	{
		name: "messages with an unknown type",
		query: func(db *gorm.DB) *gorm.DB {
			return db.Model(&domain.Message{}).Where("message_type NOT IN ?", domain.MessageTypes)
		},
	},
	{
		name: "messages updated before creation",
		query: func(db *gorm.DB) *gorm.DB {
			return db.Model(&domain.Message{}).Where("updated_at < created_at")
		},
	},
}

// Verify runs the message integrity checks and returns every failing one
func Verify(db *gorm.DB) ([]Issue, error) {
	var issues []Issue
	for _, check := range integrityChecks {
		var count int64
		if err := check.query(db).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", check.name, err)
		}
		if count > 0 {
			issues = append(issues, Issue{Check: check.name, Count: count})
		}
	}
	return issues, nil
}

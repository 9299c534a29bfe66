package migration

import (
	"fmt"

	"github.com/teamlog/teamlog-backend/internal/domain"
	"github.com/teamlog/teamlog-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists the schema in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Project{},
		&domain.Task{},
		&domain.Message{},
	}
}

// Run executes AutoMigrate for every table. Existing tables gain missing columns and indexes.
func Run(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	logger.Info("[Migration] schema up to date (%d tables)", len(Models()))
	return nil
}

// Plan reports the tables and message columns that Run would create, without touching the store
func Plan(db *gorm.DB) ([]string, error) {
	m := db.Migrator()
	var pending []string

	for _, model := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse %T: %w", model, err)
		}
		table := stmt.Schema.Table
		if !m.HasTable(model) {
			pending = append(pending, "create table "+table)
			continue
		}
		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" {
				continue
			}
			if !m.HasColumn(model, field.DBName) {
				pending = append(pending, fmt.Sprintf("add column %s.%s", table, field.DBName))
			}
		}
	}
	return pending, nil
}

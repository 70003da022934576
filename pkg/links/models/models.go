package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: Link must be migrated before Label as labels reference links
func AllModels() []interface{} {
	return []interface{}{
		&LinkGroup{},
		&Link{},
		&Label{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

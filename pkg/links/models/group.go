package models

import (
	"time"

	"gorm.io/gorm"
)

// LinkGroup represents a named group that links refer to by GroupName
type LinkGroup struct {
	ID                uint           `gorm:"primarykey" json:"-"`
	Name              string         `gorm:"uniqueIndex;not null" json:"name"`
	CreationTimestamp time.Time      `gorm:"autoCreateTime" json:"creation_timestamp"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	DisplayName       string         `json:"display_name"`
	Priority          int            `gorm:"default:0" json:"priority"`
}

// BeforeSave stores creation times in UTC
func (g *LinkGroup) BeforeSave(tx *gorm.DB) error {
	g.CreationTimestamp = g.CreationTimestamp.UTC()
	return nil
}

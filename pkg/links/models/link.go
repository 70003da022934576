package models

import (
	"time"

	"gorm.io/gorm"
)

// Query names of the indexed link fields. Selectors, sort parameters and the
// console filter all address fields by these paths.
const (
	FieldName              = "metadata.name"
	FieldCreationTimestamp = "metadata.creationTimestamp"
	FieldDisplayName       = "spec.displayName"
	FieldDescription       = "spec.description"
	FieldURL               = "spec.url"
	FieldLogo              = "spec.logo"
	FieldPriority          = "spec.priority"
	FieldGroupName         = "spec.groupName"
	FieldHidden            = "spec.hidden"

	// LabelFieldPrefix prefixes a label key to form its field path,
	// e.g. metadata.labels.plugin-links.halo.run/featured.
	LabelFieldPrefix = "metadata.labels."
)

// Link represents a labeled external URL shown in the console
type Link struct {
	ID                uint           `gorm:"primarykey" json:"-"`
	Name              string         `gorm:"uniqueIndex;not null" json:"name"`
	CreationTimestamp time.Time      `gorm:"autoCreateTime;index" json:"creation_timestamp"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Version           int64          `gorm:"default:0" json:"version"`

	DisplayName string `json:"display_name"`
	URL         string `gorm:"not null" json:"url"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
	Priority    int    `gorm:"default:0" json:"priority"`
	GroupName   string `gorm:"index" json:"group_name"`
	Hidden      bool   `gorm:"default:false" json:"hidden"`

	// Relationships
	Labels []Label `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"labels,omitempty"`
}

// BeforeSave stores creation times in UTC so that they order by instant
func (l *Link) BeforeSave(tx *gorm.DB) error {
	l.CreationTimestamp = l.CreationTimestamp.UTC()
	return nil
}

// LabelMap returns the link's labels keyed by label key
func (l Link) LabelMap() map[string]string {
	if len(l.Labels) == 0 {
		return nil
	}
	labels := make(map[string]string, len(l.Labels))
	for _, label := range l.Labels {
		labels[label.Key] = label.Value
	}
	return labels
}

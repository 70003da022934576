package models

import "sort"

// Label is a single key/value label attached to a link
type Label struct {
	ID     uint   `gorm:"primarykey" json:"-"`
	LinkID uint   `gorm:"not null;uniqueIndex:idx_link_label_key" json:"-"`
	Key    string `gorm:"column:label_key;not null;uniqueIndex:idx_link_label_key;index" json:"key"`
	Value  string `gorm:"column:label_value" json:"value"`
}

// TableName keeps labels namespaced to links
func (Label) TableName() string {
	return "link_labels"
}

// LabelsFromMap converts a label map into label rows, ordered by key so that
// inserts are deterministic.
func LabelsFromMap(m map[string]string) []Label {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	labels := make([]Label, len(keys))
	for i, k := range keys {
		labels[i] = Label{Key: k, Value: m[k]}
	}
	return labels
}

// Package importexport moves links and link groups between the database and
// JSON documents in extension shape.
package importexport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/AR-26710/plugin-links/pkg/links/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Document is the import/export file format
type Document struct {
	Groups []GroupDocument `json:"groups"`
	Links  []LinkDocument  `json:"links"`
}

// Metadata is the shared metadata block of documents
type Metadata struct {
	Name              string            `json:"name"`
	Labels            map[string]string `json:"labels,omitempty"`
	CreationTimestamp *time.Time        `json:"creationTimestamp,omitempty"`
}

// GroupDocument represents a link group
type GroupDocument struct {
	Metadata Metadata  `json:"metadata"`
	Spec     GroupSpec `json:"spec"`
}

// GroupSpec is the group payload
type GroupSpec struct {
	DisplayName string `json:"displayName" validate:"required"`
	Priority    int    `json:"priority"`
}

// LinkDocument represents a link
type LinkDocument struct {
	Metadata Metadata `json:"metadata"`
	Spec     LinkSpec `json:"spec"`
}

// LinkSpec is the link payload
type LinkSpec struct {
	DisplayName string `json:"displayName" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	Logo        string `json:"logo,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
	GroupName   string `json:"groupName,omitempty"`
	Hidden      bool   `json:"hidden"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Service imports and exports link documents
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	validate *validator.Validate
}

// NewService creates a new import/export service
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger, validate: validator.New()}
}

// generateName creates a name for records imported without one
func generateName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// Import reads a document from r and creates its groups and links. Records
// whose name already exists are skipped; invalid records are reported in
// the result and do not abort the import.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode import document")
	}

	result := &ImportResult{}
	db := s.db.WithContext(ctx)

	for i, g := range doc.Groups {
		if err := s.validate.Struct(g.Spec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("group %d: %v", i, err))
			continue
		}
		name := g.Metadata.Name
		if name == "" {
			name = generateName("link-group")
		}

		var count int64
		if err := db.Model(&models.LinkGroup{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return result, errors.Wrap(err, "check group name")
		}
		if count > 0 {
			result.Skipped++
			continue
		}

		group := models.LinkGroup{
			Name:        name,
			DisplayName: g.Spec.DisplayName,
			Priority:    g.Spec.Priority,
		}
		if g.Metadata.CreationTimestamp != nil {
			group.CreationTimestamp = g.Metadata.CreationTimestamp.UTC()
		}
		if err := db.Create(&group).Error; err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("group %s: %v", name, err))
			continue
		}
		result.Imported++
	}

	for i, l := range doc.Links {
		if err := s.validate.Struct(l.Spec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("link %d: %v", i, err))
			continue
		}
		name := l.Metadata.Name
		if name == "" {
			name = generateName("link")
		}

		var count int64
		if err := db.Model(&models.Link{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return result, errors.Wrap(err, "check link name")
		}
		if count > 0 {
			result.Skipped++
			continue
		}

		link := models.Link{
			Name:        name,
			DisplayName: l.Spec.DisplayName,
			URL:         l.Spec.URL,
			Logo:        l.Spec.Logo,
			Description: l.Spec.Description,
			Priority:    l.Spec.Priority,
			GroupName:   l.Spec.GroupName,
			Hidden:      l.Spec.Hidden,
			Labels:      models.LabelsFromMap(l.Metadata.Labels),
		}
		if l.Metadata.CreationTimestamp != nil {
			link.CreationTimestamp = l.Metadata.CreationTimestamp.UTC()
		}
		if err := db.Create(&link).Error; err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("link %s: %v", name, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info("import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// Export writes every group and link to w, ordered by name
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	db := s.db.WithContext(ctx)

	var groups []models.LinkGroup
	if err := db.Order("name ASC").Find(&groups).Error; err != nil {
		return errors.Wrap(err, "fetch groups")
	}
	var links []models.Link
	if err := db.Preload("Labels").Order("name ASC").Find(&links).Error; err != nil {
		return errors.Wrap(err, "fetch links")
	}

	doc := Document{
		Groups: make([]GroupDocument, len(groups)),
		Links:  make([]LinkDocument, len(links)),
	}
	for i, g := range groups {
		created := g.CreationTimestamp.UTC()
		doc.Groups[i] = GroupDocument{
			Metadata: Metadata{Name: g.Name, CreationTimestamp: &created},
			Spec:     GroupSpec{DisplayName: g.DisplayName, Priority: g.Priority},
		}
	}
	for i, l := range links {
		created := l.CreationTimestamp.UTC()
		doc.Links[i] = LinkDocument{
			Metadata: Metadata{Name: l.Name, Labels: l.LabelMap(), CreationTimestamp: &created},
			Spec: LinkSpec{
				DisplayName: l.DisplayName,
				URL:         l.URL,
				Logo:        l.Logo,
				Description: l.Description,
				Priority:    l.Priority,
				GroupName:   l.GroupName,
				Hidden:      l.Hidden,
			},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode export document")
	}

	s.logger.Info("export finished", zap.Int("groups", len(groups)), zap.Int("links", len(links)))
	return nil
}

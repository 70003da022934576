// Package store lists link records from the database, evaluating filter
// predicates and page requests built by the query package.
package store

import (
	"context"

	"github.com/AR-26710/plugin-links/pkg/links/models"
	"github.com/AR-26710/plugin-links/pkg/links/query"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormStore serves link listings from a gorm database
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore creates a new store over db
func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormStore{db: db, logger: logger}
}

// ListLinks returns the page of links matching filter, ordered by the page
// request's sort orders. Filters or orders over fields that are not indexed
// fail with ErrUnsupportedField.
func (s *GormStore) ListLinks(ctx context.Context, filter query.Query, page query.PageRequest) (*ListResult[models.Link], error) {
	where, args, err := compileLinkQuery(filter)
	if err != nil {
		return nil, err
	}
	orders, err := compileOrders(page.Sort)
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Model(&models.Link{})
	if _, all := filter.(query.All); !all {
		tx = tx.Where(where, args...)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "count links")
	}

	find := tx.Preload("Labels")
	for _, order := range orders {
		find = find.Order(order)
	}
	if !page.Unpaged() {
		find = find.Limit(page.Size).Offset(page.Offset())
	}

	var links []models.Link
	if err := find.Find(&links).Error; err != nil {
		return nil, errors.Wrap(err, "find links")
	}

	s.logger.Debug("listed links",
		zap.Stringer("filter", filter),
		zap.Strings("orders", orders),
		zap.Int("page", page.Page),
		zap.Int("size", page.Size),
		zap.Int64("total", total),
	)

	return NewListResult(page.Page, page.Size, total, links), nil
}

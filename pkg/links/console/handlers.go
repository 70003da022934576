// Package console serves the console link listing endpoint.
package console

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/AR-26710/plugin-links/pkg/links/models"
	"github.com/AR-26710/plugin-links/pkg/links/query"
	"github.com/AR-26710/plugin-links/pkg/links/store"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BasePath is the route prefix of the console API
const BasePath = "/apis/plugin-links.halo.run/v1alpha1/console"

const (
	linkAPIVersion = "core.halo.run/v1alpha1"
	linkKind       = "Link"
)

// ExtensionStore lists stored links matching a filter, one page at a time
type ExtensionStore interface {
	ListLinks(ctx context.Context, filter query.Query, page query.PageRequest) (*store.ListResult[models.Link], error)
}

// PaginationConfig bounds the page size of listings
type PaginationConfig struct {
	// DefaultPageSize applies when the request has no size; 0 lists everything
	DefaultPageSize int
	// MaxPageSize caps requested sizes when positive, including unpaged requests
	MaxPageSize int
}

// Handler handles console link requests
type Handler struct {
	store      ExtensionStore
	pagination PaginationConfig
	logger     *zap.Logger
}

// NewHandler creates a new console handler
func NewHandler(store ExtensionStore, pagination PaginationConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, pagination: pagination, logger: logger}
}

// ListLinksRequest represents the query parameters of a console listing
type ListLinksRequest struct {
	Keyword       string   `form:"keyword"`
	GroupName     string   `form:"groupName"`
	Hidden        string   `form:"hidden"`
	LabelSelector []string `form:"labelSelector"`
	FieldSelector []string `form:"fieldSelector"`
	Sort          []string `form:"sort"`
	Page          int      `form:"page"`
	Size          *int     `form:"size" binding:"omitempty,min=0"`
}

// LinkResponse represents a link in API responses
type LinkResponse struct {
	APIVersion string           `json:"apiVersion"`
	Kind       string           `json:"kind"`
	Metadata   MetadataResponse `json:"metadata"`
	Spec       LinkSpecResponse `json:"spec"`
}

// MetadataResponse represents link metadata in API responses
type MetadataResponse struct {
	Name              string            `json:"name"`
	Labels            map[string]string `json:"labels,omitempty"`
	CreationTimestamp string            `json:"creationTimestamp"`
	Version           int64             `json:"version"`
}

// LinkSpecResponse represents the link spec in API responses
type LinkSpecResponse struct {
	DisplayName string `json:"displayName"`
	URL         string `json:"url"`
	Logo        string `json:"logo,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
	GroupName   string `json:"groupName,omitempty"`
	Hidden      bool   `json:"hidden"`
}

func linkToResponse(link models.Link) LinkResponse {
	return LinkResponse{
		APIVersion: linkAPIVersion,
		Kind:       linkKind,
		Metadata: MetadataResponse{
			Name:              link.Name,
			Labels:            link.LabelMap(),
			CreationTimestamp: link.CreationTimestamp.UTC().Format(time.RFC3339),
			Version:           link.Version,
		},
		Spec: LinkSpecResponse{
			DisplayName: link.DisplayName,
			URL:         link.URL,
			Logo:        link.Logo,
			Description: link.Description,
			Priority:    link.Priority,
			GroupName:   link.GroupName,
			Hidden:      link.Hidden,
		},
	}
}

// ToLinkQuery decodes the raw parameters into a LinkQuery, applying the
// pagination defaults and cap.
func (r ListLinksRequest) ToLinkQuery(pagination PaginationConfig) (LinkQuery, error) {
	labelSelector, err := query.ParseLabelSelector(r.LabelSelector)
	if err != nil {
		return LinkQuery{}, err
	}
	fieldSelector, err := query.ParseFieldSelector(r.FieldSelector)
	if err != nil {
		return LinkQuery{}, err
	}
	sort, err := query.ParseSort(r.Sort)
	if err != nil {
		return LinkQuery{}, err
	}

	page := r.Page
	if page < 1 {
		page = 1
	}
	size := pagination.DefaultPageSize
	if r.Size != nil {
		size = *r.Size
	}
	if pagination.MaxPageSize > 0 && (size <= 0 || size > pagination.MaxPageSize) {
		size = pagination.MaxPageSize
	}
	if size > 0 && page-1 > math.MaxInt/size {
		return LinkQuery{}, errors.Errorf("page %d is out of range", page)
	}

	return LinkQuery{
		Keyword:       r.Keyword,
		GroupName:     r.GroupName,
		Hidden:        ParseHidden(r.Hidden),
		LabelSelector: labelSelector,
		FieldSelector: fieldSelector,
		Sort:          sort,
		Page:          page,
		Size:          size,
	}, nil
}

// ListLinks lists links for console management, hidden links included
// @Summary List links for the console
// @Description Lists all links for console management (including hidden links)
// @Tags plugin-links.halo.run/v1alpha1/ConsoleLink
// @Produce json
// @Param keyword query string false "Keyword to search links under the group"
// @Param groupName query string false "Link group name"
// @Param hidden query bool false "Filter by hidden status (true/false)"
// @Param labelSelector query []string false "Label selector, e.g. env=prod"
// @Param fieldSelector query []string false "Field selector, e.g. spec.groupName=default"
// @Param sort query []string false "Sort orders, e.g. spec.priority,desc"
// @Param page query int false "Page number, starting at 1"
// @Param size query int false "Page size, 0 lists everything"
// @Success 200 {object} store.ListResult[LinkResponse]
// @Failure 400 {object} map[string]string "Invalid query"
// @Router /apis/plugin-links.halo.run/v1alpha1/console/links [get]
func (h *Handler) ListLinks(c *gin.Context) {
	var req ListLinksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := req.ToLinkQuery(h.pagination)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.store.ListLinks(c.Request.Context(), q.ToFilter(), q.ToPageRequest())
	if err != nil {
		if errors.Is(err, store.ErrUnsupportedField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to list links", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list links"})
		return
	}

	c.JSON(http.StatusOK, store.Map(result, linkToResponse))
}

// RegisterRoutes registers console routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/links", h.ListLinks)
}

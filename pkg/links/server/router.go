// Package server assembles the HTTP surface of the links service.
package server

import (
	"net/http"

	"github.com/AR-26710/plugin-links/pkg/links/console"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures NewRouter
type Options struct {
	Store      console.ExtensionStore
	Pagination console.PaginationConfig
	Logger     *zap.Logger
	// RunMode is the gin mode; debug uses gin's own recovery
	RunMode string
	// Registry receives the service collectors; nil creates a fresh one
	Registry *prometheus.Registry
}

// NewRouter builds the gin engine with health, metrics and console routes
func NewRouter(opts Options) (*gin.Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, errors.Wrap(err, "register metrics")
	}

	r := gin.New()
	if opts.RunMode == gin.DebugMode {
		r.Use(gin.Recovery())
	} else {
		r.Use(Recovery(logger))
	}
	r.Use(AccessLog(logger), metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "links",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handler := console.NewHandler(opts.Store, opts.Pagination, logger)
	handler.RegisterRoutes(r.Group(console.BasePath))

	return r, nil
}

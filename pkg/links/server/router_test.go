package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AR-26710/plugin-links/pkg/links/console"
	"github.com/AR-26710/plugin-links/pkg/links/models"
	"github.com/AR-26710/plugin-links/pkg/links/query"
	"github.com/AR-26710/plugin-links/pkg/links/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyStore struct{}

func (emptyStore) ListLinks(_ context.Context, _ query.Query, page query.PageRequest) (*store.ListResult[models.Link], error) {
	return store.NewListResult[models.Link](page.Page, page.Size, 0, nil), nil
}

type panicStore struct{}

func (panicStore) ListLinks(context.Context, query.Query, query.PageRequest) (*store.ListResult[models.Link], error) {
	panic("boom")
}

func newTestRouter(t *testing.T, s console.ExtensionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r, err := NewRouter(Options{Store: s, RunMode: gin.TestMode})
	require.NoError(t, err)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, emptyStore{})

	resp := get(r, "/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestConsoleRouteMounted(t *testing.T) {
	r := newTestRouter(t, emptyStore{})

	resp := get(r, console.BasePath+"/links")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"items":[]`)
}

func TestMetricsRecordRequests(t *testing.T) {
	r := newTestRouter(t, emptyStore{})

	get(r, "/health")
	get(r, "/nope")

	resp := get(r, "/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `links_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, `links_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.True(t, strings.Contains(body, "links_http_request_duration_seconds_bucket"))
}

func TestRecoveryReturns500(t *testing.T) {
	r := newTestRouter(t, panicStore{})

	resp := get(r, console.BasePath+"/links")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "Internal server error")
}

func TestSharedRegistryRejectsDuplicateRouters(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRouter(Options{Store: emptyStore{}, Registry: reg})
	require.NoError(t, err)

	_, err = NewRouter(Options{Store: emptyStore{}, Registry: reg})
	assert.Error(t, err)
}

package console

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/AR-26710/plugin-links/pkg/links/models"
	"github.com/AR-26710/plugin-links/pkg/links/query"
	"github.com/AR-26710/plugin-links/pkg/links/store"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type listResponse = store.ListResult[LinkResponse]

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func setupTestRouter(s ExtensionStore, pagination PaginationConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(s, pagination, nil)
	handler.RegisterRoutes(r.Group(BasePath))
	return r
}

func createTestLink(t *testing.T, db *gorm.DB, link models.Link) {
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("Failed to create test link: %v", err)
	}
}

func seedTestLinks(t *testing.T, db *gorm.DB) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	createTestLink(t, db, models.Link{
		Name: "link-go", DisplayName: "Go", URL: "https://go.dev", GroupName: "dev",
		CreationTimestamp: base, Priority: 1,
		Labels: models.LabelsFromMap(map[string]string{"env": "prod"}),
	})
	createTestLink(t, db, models.Link{
		Name: "link-halo", DisplayName: "Halo", URL: "https://halo.run", Description: "Blogging",
		GroupName: "cms", CreationTimestamp: base.Add(time.Hour), Priority: 3,
	})
	createTestLink(t, db, models.Link{
		Name: "link-hidden", DisplayName: "Hidden Go", URL: "https://example.com/private",
		GroupName: "dev", Hidden: true, CreationTimestamp: base.Add(2 * time.Hour), Priority: 2,
	})
}

func doList(t *testing.T, r *gin.Engine, params url.Values) *httptest.ResponseRecorder {
	target := BasePath + "/links"
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, _ := http.NewRequest("GET", target, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeList(t *testing.T, resp *httptest.ResponseRecorder) listResponse {
	var out listResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response: %v: %s", err, resp.Body.String())
	}
	return out
}

func itemNames(r listResponse) []string {
	out := make([]string, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Metadata.Name
	}
	return out
}

func assertNames(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestListLinksDefault(t *testing.T) {
	db := setupTestDB(t)
	seedTestLinks(t, db)
	router := setupTestRouter(store.NewGormStore(db, nil), PaginationConfig{})

	resp := doList(t, router, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	result := decodeList(t, resp)
	// newest first; hidden links are included in the console listing
	assertNames(t, itemNames(result), "link-hidden", "link-halo", "link-go")
	if result.Total != 3 || result.Page != 1 || result.Size != 0 {
		t.Errorf("Unexpected paging metadata: %+v", result)
	}

	goLink := result.Items[2]
	if goLink.APIVersion != "core.halo.run/v1alpha1" || goLink.Kind != "Link" {
		t.Errorf("Unexpected type meta: %s %s", goLink.APIVersion, goLink.Kind)
	}
	if goLink.Spec.URL != "https://go.dev" || goLink.Spec.GroupName != "dev" {
		t.Errorf("Unexpected spec: %+v", goLink.Spec)
	}
	if goLink.Metadata.Labels["env"] != "prod" {
		t.Errorf("Expected env label, got %v", goLink.Metadata.Labels)
	}
	if goLink.Metadata.CreationTimestamp != "2024-01-01T00:00:00Z" {
		t.Errorf("Unexpected creation timestamp %s", goLink.Metadata.CreationTimestamp)
	}
}

func TestListLinksFilters(t *testing.T) {
	db := setupTestDB(t)
	seedTestLinks(t, db)
	router := setupTestRouter(store.NewGormStore(db, nil), PaginationConfig{})

	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{"keyword", url.Values{"keyword": {"go"}}, []string{"link-hidden", "link-go"}},
		{"keyword in description", url.Values{"keyword": {"blog"}}, []string{"link-halo"}},
		{"blank keyword ignored", url.Values{"keyword": {"   "}}, []string{"link-hidden", "link-halo", "link-go"}},
		{"group", url.Values{"groupName": {"dev"}}, []string{"link-hidden", "link-go"}},
		{"hidden true", url.Values{"hidden": {"true"}}, []string{"link-hidden"}},
		{"hidden false", url.Values{"hidden": {"false"}}, []string{"link-halo", "link-go"}},
		{"hidden invalid treated as false", url.Values{"hidden": {"yes"}}, []string{"link-halo", "link-go"}},
		{"hidden blank ignored", url.Values{"hidden": {""}}, []string{"link-hidden", "link-halo", "link-go"}},
		{"label selector", url.Values{"labelSelector": {"env=prod"}}, []string{"link-go"}},
		{"field selector", url.Values{"fieldSelector": {"spec.groupName=cms"}}, []string{"link-halo"}},
		{
			"everything combined",
			url.Values{"keyword": {"go"}, "groupName": {"dev"}, "hidden": {"false"}, "fieldSelector": {"spec.priority in (1,2)"}},
			[]string{"link-go"},
		},
		{"caller sort first", url.Values{"sort": {"spec.priority,desc"}}, []string{"link-halo", "link-hidden", "link-go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doList(t, router, tt.params)
			if resp.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
			}
			assertNames(t, itemNames(decodeList(t, resp)), tt.want...)
		})
	}
}

func TestListLinksPagination(t *testing.T) {
	db := setupTestDB(t)
	seedTestLinks(t, db)
	router := setupTestRouter(store.NewGormStore(db, nil), PaginationConfig{})

	resp := doList(t, router, url.Values{"page": {"2"}, "size": {"2"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	result := decodeList(t, resp)
	assertNames(t, itemNames(result), "link-go")
	if result.Total != 3 || result.TotalPages != 2 || !result.Last || !result.HasPrevious || result.HasNext {
		t.Errorf("Unexpected paging metadata: %+v", result)
	}
}

func TestListLinksPageSizeCap(t *testing.T) {
	db := setupTestDB(t)
	seedTestLinks(t, db)
	router := setupTestRouter(store.NewGormStore(db, nil), PaginationConfig{DefaultPageSize: 1, MaxPageSize: 2})

	result := decodeList(t, doList(t, router, nil))
	if result.Size != 1 || len(result.Items) != 1 {
		t.Errorf("Expected default size 1, got size %d with %d items", result.Size, len(result.Items))
	}

	result = decodeList(t, doList(t, router, url.Values{"size": {"50"}}))
	if result.Size != 2 || len(result.Items) != 2 {
		t.Errorf("Expected capped size 2, got size %d with %d items", result.Size, len(result.Items))
	}

	result = decodeList(t, doList(t, router, url.Values{"size": {"0"}}))
	if result.Size != 2 {
		t.Errorf("Expected unpaged request capped to 2, got %d", result.Size)
	}
}

func TestListLinksBadRequests(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(store.NewGormStore(db, nil), PaginationConfig{})

	bad := []url.Values{
		{"page": {"abc"}},
		{"size": {"-1"}},
		{"labelSelector": {"env in prod"}},
		{"fieldSelector": {"spec.hidden"}},
		{"fieldSelector": {"spec.unknown=1"}},
		{"sort": {",desc"}},
		{"sort": {"metadata.labels.env,asc"}},
		{"page": {strconv.Itoa(math.MaxInt)}, "size": {"10"}},
		{"page": {strconv.Itoa(math.MaxInt/2 + 2)}, "size": {"2"}},
	}
	for _, params := range bad {
		resp := doList(t, router, params)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %v, got %d: %s", params, resp.Code, resp.Body.String())
		}
	}
}

func TestListLinksLargePageWithinRange(t *testing.T) {
	db := setupTestDB(t)
	seedTestLinks(t, db)
	router := setupTestRouter(store.NewGormStore(db, nil), PaginationConfig{})

	resp := doList(t, router, url.Values{"page": {"1000000"}, "size": {"2"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	result := decodeList(t, resp)
	if len(result.Items) != 0 || result.Page != 1000000 {
		t.Errorf("Expected an empty page 1000000, got page %d with %v", result.Page, itemNames(result))
	}

	// unpaged requests ignore the page number
	resp = doList(t, router, url.Values{"page": {strconv.Itoa(math.MaxInt)}})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

type fakeStore struct {
	filter query.Query
	page   query.PageRequest
	err    error
}

func (f *fakeStore) ListLinks(_ context.Context, filter query.Query, page query.PageRequest) (*store.ListResult[models.Link], error) {
	f.filter = filter
	f.page = page
	if f.err != nil {
		return nil, f.err
	}
	return store.NewListResult[models.Link](page.Page, page.Size, 0, nil), nil
}

func TestListLinksPassesTranslatedQuery(t *testing.T) {
	fake := &fakeStore{}
	router := setupTestRouter(fake, PaginationConfig{})

	resp := doList(t, router, url.Values{"keyword": {"go"}, "sort": {"spec.priority,desc"}, "page": {"0"}, "size": {"5"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	want := query.NewAnd(query.NewAll(), keywordQuery("go"))
	if fake.filter.String() != want.String() {
		t.Errorf("Expected filter %s, got %s", want, fake.filter)
	}
	if fake.page.Page != 1 || fake.page.Size != 5 {
		t.Errorf("Expected page 1 size 5, got %+v", fake.page)
	}
	if len(fake.page.Sort) != 3 || fake.page.Sort[0] != query.DescOrder(models.FieldPriority) {
		t.Errorf("Unexpected sort %v", fake.page.Sort)
	}
}

func TestListLinksStoreFailure(t *testing.T) {
	router := setupTestRouter(&fakeStore{err: errors.New("database is locked")}, PaginationConfig{})

	resp := doList(t, router, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", resp.Code)
	}
	result := decodeList(t, resp)
	if len(result.Items) != 0 {
		t.Errorf("Expected no items on failure")
	}
}

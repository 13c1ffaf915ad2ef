package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/search"
	"github.com/boyuanitsm/fort/service"
	"github.com/boyuanitsm/fort/update"
	"github.com/boyuanitsm/fort/utils"
)

type stubGroupRepo struct {
	groups map[int64]*models.SecurityGroup
	nextID int64
}

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{groups: make(map[int64]*models.SecurityGroup), nextID: 1}
}

func (m *stubGroupRepo) Save(group *models.SecurityGroup) error {
	if group.ID == 0 {
		group.ID = m.nextID
		m.nextID++
	}
	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *stubGroupRepo) FindByID(id int64) (*models.SecurityGroup, error) {
	group, ok := m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return group, nil
}

func (m *stubGroupRepo) FindByIDs(ids []int64) ([]models.SecurityGroup, error) {
	result := make([]models.SecurityGroup, 0, len(ids))
	for _, id := range ids {
		if group, ok := m.groups[id]; ok {
			result = append(result, *group)
		}
	}
	return result, nil
}

func (m *stubGroupRepo) FindAll(page utils.Pageable) ([]models.SecurityGroup, int64, error) {
	result := make([]models.SecurityGroup, 0, len(m.groups))
	for _, group := range m.groups {
		result = append(result, *group)
	}
	return result, int64(len(m.groups)), nil
}

func (m *stubGroupRepo) FindAllByAppID(page utils.Pageable, appID int64) ([]models.SecurityGroup, int64, error) {
	result := []models.SecurityGroup{}
	for _, group := range m.groups {
		if group.AppID == appID {
			result = append(result, *group)
		}
	}
	return result, int64(len(result)), nil
}

func (m *stubGroupRepo) FindByAppAndName(appID int64, name string) (*models.SecurityGroup, error) {
	for _, group := range m.groups {
		if group.AppID == appID && group.Name == name {
			return group, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *stubGroupRepo) Delete(id int64) error {
	if _, ok := m.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.groups, id)
	return nil
}

type stubSearcher struct {
	hits  []int64
	total uint64
}

func (m *stubSearcher) Save(id int64, doc interface{}) error { return nil }
func (m *stubSearcher) Delete(id int64) error                { return nil }
func (m *stubSearcher) Search(q search.Query, page utils.Pageable) ([]int64, uint64, error) {
	return m.hits, m.total, nil
}

func groupTestApp(t *testing.T) (*fiber.App, *stubGroupRepo, *stubSearcher) {
	t.Helper()

	repo := newStubGroupRepo()
	searcher := &stubSearcher{}
	handler := NewGroupHandler(service.NewGroupService(repo, searcher, update.NewHub()))

	app := fiber.New()
	app.Use(goerrorkit.FiberErrorHandler())
	app.Post("/api/security-groups", handler.Create)
	app.Put("/api/security-groups", handler.Update)
	app.Get("/api/security-groups", handler.GetAll)
	app.Get("/api/security-groups/:id", handler.GetOne)
	app.Delete("/api/security-groups/:id", handler.Delete)
	app.Get("/api/_search/security-groups", handler.Search)
	return app, repo, searcher
}

func TestGroupHandler_Create(t *testing.T) {
	app, repo, _ := groupTestApp(t)

	body, _ := json.Marshal(models.SecurityGroup{Name: "admins", AppID: 3})
	req := httptest.NewRequest("POST", "/api/security-groups", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Location") != "/api/security-groups/1" {
		t.Errorf("unexpected Location header %q", resp.Header.Get("Location"))
	}
	if resp.Header.Get(headerAlert) != "fortApp.securityGroup.created" {
		t.Errorf("unexpected alert header %q", resp.Header.Get(headerAlert))
	}

	var created models.SecurityGroup
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 1 || created.Name != "admins" {
		t.Errorf("unexpected body %+v", created)
	}
	if _, ok := repo.groups[1]; !ok {
		t.Error("group was not persisted")
	}
}

func TestGroupHandler_CreateRejectsExistingID(t *testing.T) {
	app, _, _ := groupTestApp(t)

	body, _ := json.Marshal(models.SecurityGroup{ID: 7, Name: "admins"})
	req := httptest.NewRequest("POST", "/api/security-groups", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if resp.Header.Get(headerError) != "error.idexists" {
		t.Errorf("unexpected error header %q", resp.Header.Get(headerError))
	}
}

func TestGroupHandler_CreateRejectsDuplicateName(t *testing.T) {
	app, repo, _ := groupTestApp(t)
	repo.Save(&models.SecurityGroup{Name: "admins", AppID: 3})

	body, _ := json.Marshal(models.SecurityGroup{Name: "admins", AppID: 3})
	req := httptest.NewRequest("POST", "/api/security-groups", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if resp.Header.Get(headerError) != "error.nameexists" {
		t.Errorf("unexpected error header %q", resp.Header.Get(headerError))
	}
}

func TestGroupHandler_UpdateWithoutIDFallsBackToCreate(t *testing.T) {
	app, repo, _ := groupTestApp(t)

	body, _ := json.Marshal(models.SecurityGroup{Name: "admins", AppID: 3})
	req := httptest.NewRequest("PUT", "/api/security-groups", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if len(repo.groups) != 1 {
		t.Errorf("expected 1 persisted group, got %d", len(repo.groups))
	}
}

func TestGroupHandler_Update(t *testing.T) {
	app, repo, _ := groupTestApp(t)
	repo.Save(&models.SecurityGroup{ID: 5, Name: "admins", AppID: 3})

	body, _ := json.Marshal(models.SecurityGroup{ID: 5, Name: "renamed", AppID: 3})
	req := httptest.NewRequest("PUT", "/api/security-groups", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(headerAlert) != "fortApp.securityGroup.updated" {
		t.Errorf("unexpected alert header %q", resp.Header.Get(headerAlert))
	}
	if repo.groups[5].Name != "renamed" {
		t.Errorf("expected group renamed, got %q", repo.groups[5].Name)
	}
}

func TestGroupHandler_GetAllSetsPaginationHeaders(t *testing.T) {
	app, repo, _ := groupTestApp(t)
	repo.Save(&models.SecurityGroup{Name: "admins", AppID: 3})
	repo.Save(&models.SecurityGroup{Name: "auditors", AppID: 3})

	req := httptest.NewRequest("GET", "/api/security-groups?page=0&size=20", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Total-Count") != "2" {
		t.Errorf("expected X-Total-Count 2, got %q", resp.Header.Get("X-Total-Count"))
	}
	if resp.Header.Get("Link") == "" {
		t.Error("expected a Link header")
	}

	var groups []models.SecurityGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(groups))
	}
}

func TestGroupHandler_GetOne(t *testing.T) {
	app, repo, _ := groupTestApp(t)
	repo.Save(&models.SecurityGroup{ID: 5, Name: "admins"})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/security-groups/5", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/security-groups/99", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404 for a missing group, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/security-groups/abc", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for a bad id, got %d", resp.StatusCode)
	}
}

func TestGroupHandler_Delete(t *testing.T) {
	app, repo, _ := groupTestApp(t)
	repo.Save(&models.SecurityGroup{ID: 5, Name: "admins"})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/security-groups/5", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(headerAlert) != "fortApp.securityGroup.deleted" {
		t.Errorf("unexpected alert header %q", resp.Header.Get(headerAlert))
	}
	if len(repo.groups) != 0 {
		t.Error("group row should be gone")
	}

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/security-groups/5", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404 for a second delete, got %d", resp.StatusCode)
	}
}

func TestGroupHandler_Search(t *testing.T) {
	app, repo, searcher := groupTestApp(t)
	repo.Save(&models.SecurityGroup{ID: 1, Name: "admins"})
	searcher.hits = []int64{1}
	searcher.total = 1

	resp, err := app.Test(httptest.NewRequest("GET", "/api/_search/security-groups?query=admins", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Total-Count") != "1" {
		t.Errorf("expected X-Total-Count 1, got %q", resp.Header.Get("X-Total-Count"))
	}

	// A blank query is rejected before the index is touched.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/_search/security-groups", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for a blank query, got %d", resp.StatusCode)
	}
}

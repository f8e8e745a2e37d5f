package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brigadas_backend/internal/adapters/docstore"
	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/internal/brigades/repository"
	"brigadas_backend/internal/brigades/service"
	"brigadas_backend/internal/events"
	"brigadas_backend/platform/httpkit"
	"brigadas_backend/platform/logger"
	"brigadas_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-access-secret"

type testJWTConfig struct{}

func (testJWTConfig) GetJWTAccessSecret() string { return testSecret }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type testServer struct {
	engine *gin.Engine
	store  *docstore.MemoryStore
	bus    *events.InMemoryBus
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := docstore.NewMemoryStore()
	repo := repository.New(store)
	bus := events.NewInMemoryBus(logger.Discard())
	svc := service.New(repo, repo, bus, validator.New(), logger.Discard(), nil)
	h := New(svc)

	auth := httpkit.AuthRequired(testJWTConfig{})
	engine := gin.New()
	protected := engine.Group("/api/v1", auth)
	h.RegisterRoutes(protected.Group("/brigades"))
	admin := engine.Group("/api/v1/admin", auth, httpkit.RequireRole("admin"))
	h.RegisterAdminRoutes(admin.Group("/brigades"))

	t.Cleanup(bus.Wait)
	return &testServer{engine: engine, store: store, bus: bus}
}

func token(t *testing.T, roles ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   uuid.NewString(),
		"type":  "access",
		"name":  "Operadora Centro",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func (s *testServer) putBrigade(t *testing.T, id string, b domain.Brigade) {
	t.Helper()
	if b.AssignedReports == nil {
		b.AssignedReports = []string{}
	}
	b.Stats.InProcessCount = len(b.AssignedReports)
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal brigade: %v", err)
	}
	s.store.Put("brigades", id, data)
}

func (s *testServer) putReport(t *testing.T, id string, r domain.Report) {
	t.Helper()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	s.store.Put("reports", id, data)
}

func TestCreateAndGetBrigade(t *testing.T) {
	s := newTestServer(t)
	bearer := token(t)

	code, env := s.do(t, http.MethodPost, "/api/v1/brigades", bearer, map[string]any{
		"name": "Cuadrilla Norte",
		"type": "bacheo",
		"members": []map[string]any{
			{"name": "Ana Torres", "role": "supervisor", "isLead": true},
		},
	})
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("expected 201 success, got %d %+v", code, env)
	}

	var created struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		CreatedBy string `json:"createdBy"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created brigade: %v", err)
	}
	if created.ID == "" || created.Status != "activa" || created.CreatedBy != "Operadora Centro" {
		t.Fatalf("unexpected created brigade: %+v", created)
	}

	code, env = s.do(t, http.MethodGet, "/api/v1/brigades/"+created.ID, bearer, nil)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 on get, got %d %+v", code, env)
	}
}

func TestCreateBrigadeReportsViolations(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/v1/brigades", token(t), map[string]any{
		"name": "AB",
		"type": "jardineria",
	})
	if code != http.StatusBadRequest || env.Error != "validation_error" {
		t.Fatalf("expected 400 validation_error, got %d %+v", code, env)
	}

	var details []struct {
		Field string `json:"field"`
	}
	if err := json.Unmarshal(env.Details, &details); err != nil {
		t.Fatalf("decode details %s: %v", env.Details, err)
	}
	fields := make(map[string]bool, len(details))
	for _, d := range details {
		fields[d.Field] = true
	}
	if !fields["name"] || !fields["type"] {
		t.Fatalf("expected name and type violations, got %s", env.Details)
	}
}

func TestRequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/api/v1/brigades", "", nil)
	if code != http.StatusUnauthorized || env.Success {
		t.Fatalf("expected 401, got %d %+v", code, env)
	}
}

func TestAssignThenDeleteIsRefused(t *testing.T) {
	s := newTestServer(t)
	bearer := token(t)
	s.putBrigade(t, "b1", domain.Brigade{Name: "Cuadrilla Norte", Type: domain.TypeBacheo, Status: domain.StatusActiva, Active: true})
	s.putReport(t, "r1", domain.Report{Category: domain.CategoryBacheo, Address: "Av. Juárez 10", Status: domain.ReportPendiente})

	code, env := s.do(t, http.MethodPost, "/api/v1/brigades/b1/assignments", bearer, map[string]string{"reportId": "r1"})
	if code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 on assign, got %d %+v", code, env)
	}
	if env.Message != "report assigned to Cuadrilla Norte" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	code, env = s.do(t, http.MethodDelete, "/api/v1/brigades/b1", bearer, nil)
	if code != http.StatusConflict || env.Error != "constraint_error" {
		t.Fatalf("expected 409 constraint_error, got %d %+v", code, env)
	}

	code, env = s.do(t, http.MethodDelete, "/api/v1/brigades/b1/assignments/r1", bearer, nil)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 on unassign, got %d %+v", code, env)
	}

	code, env = s.do(t, http.MethodDelete, "/api/v1/brigades/b1", bearer, nil)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 on delete, got %d %+v", code, env)
	}
}

func TestAvailableIsNotShadowedByID(t *testing.T) {
	s := newTestServer(t)
	s.putBrigade(t, "b1", domain.Brigade{Name: "Cuadrilla Norte", Type: domain.TypeBacheo, Status: domain.StatusActiva, Active: true})
	s.putBrigade(t, "b2", domain.Brigade{Name: "Cuadrilla Sur", Type: domain.TypeBasura, Status: domain.StatusActiva, Active: true})

	code, env := s.do(t, http.MethodGet, "/api/v1/brigades/available?category=bacheo", token(t), nil)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d %+v", code, env)
	}

	var candidates []struct {
		ID        string `json:"id"`
		Workload  int    `json:"workload"`
		Available bool   `json:"available"`
	}
	if err := json.Unmarshal(env.Data, &candidates); err != nil {
		t.Fatalf("decode candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != "b1" || !candidates[0].Available {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}

func TestListRejectsUnknownFilters(t *testing.T) {
	s := newTestServer(t)
	bearer := token(t)

	code, env := s.do(t, http.MethodGet, "/api/v1/brigades?type=jardineria", bearer, nil)
	if code != http.StatusBadRequest || env.Error != "validation_error" {
		t.Fatalf("expected 400 validation_error, got %d %+v", code, env)
	}

	code, env = s.do(t, http.MethodGet, "/api/v1/brigades?status=dormida", bearer, nil)
	if code != http.StatusBadRequest || env.Error != "invalid_state" {
		t.Fatalf("expected 400 invalid_state, got %d %+v", code, env)
	}
}

func TestSetStatusRejectsUnknownState(t *testing.T) {
	s := newTestServer(t)
	s.putBrigade(t, "b1", domain.Brigade{Name: "Cuadrilla Norte", Type: domain.TypeBacheo, Status: domain.StatusActiva, Active: true})

	code, env := s.do(t, http.MethodPut, "/api/v1/brigades/b1/status", token(t), map[string]string{"status": "dormida"})
	if code != http.StatusBadRequest || env.Error != "invalid_state" {
		t.Fatalf("expected 400 invalid_state, got %d %+v", code, env)
	}
}

func TestReconcileRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	s.putBrigade(t, "b1", domain.Brigade{Name: "Cuadrilla Norte", Type: domain.TypeBacheo, Status: domain.StatusActiva, Active: true, AssignedReports: []string{"r1"}})
	s.putReport(t, "r1", domain.Report{Category: domain.CategoryBacheo, Status: domain.ReportPendiente})

	path := "/api/v1/admin/brigades/b1/assignments/r1/reconcile"
	code, env := s.do(t, http.MethodPost, path, token(t), nil)
	if code != http.StatusForbidden || env.Success {
		t.Fatalf("expected 403, got %d %+v", code, env)
	}

	code, env = s.do(t, http.MethodPost, path, token(t, "admin"), nil)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d %+v", code, env)
	}
	var result struct {
		Repaired bool `json:"repaired"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode reconcile result: %v", err)
	}
	if !result.Repaired {
		t.Fatal("expected the orphaned assignment to be repaired")
	}
}

package importexport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store/gormstore"
)

const adminToken = "admin-secret"

func setupTestRouter(dir Directory, rec Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(dir, rec, nil)

	api := r.Group("/api")
	api.Use(RequireToken(adminToken))
	handler.RegisterRoutes(api)

	return r
}

func doRequest(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireToken(t *testing.T) {
	r := setupTestRouter(setupTestStore(t), nil)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"bad format", "Token " + adminToken, http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusForbidden},
		{"valid", "Bearer " + adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestImportHandler(t *testing.T) {
	st := setupTestStore(t)
	rec := &totals{}
	r := setupTestRouter(st, rec)

	w := doRequest(r, http.MethodPost, "/api/import", seed, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result ImportResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Imported != 2 || result.Skipped != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if *rec != (totals{2, 1, 2}) {
		t.Errorf("Expected totals to be recorded, got %+v", *rec)
	}
}

func TestImportHandlerMalformed(t *testing.T) {
	r := setupTestRouter(setupTestStore(t), nil)

	w := doRequest(r, http.MethodPost, "/api/import", `{"name": "not a list"}`, adminToken)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

type unavailableStore struct {
	*gormstore.Store
}

func (unavailableStore) CreateBox(context.Context, *models.Box) (*models.Box, error) {
	return nil, errors.New("network unreachable")
}

func TestImportHandlerTransientFailure(t *testing.T) {
	r := setupTestRouter(unavailableStore{setupTestStore(t)}, nil)

	w := doRequest(r, http.MethodPost, "/api/import", seed, adminToken)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if _, ok := resp["result"]; !ok {
		t.Error("Expected the partial result in the response")
	}
}

func TestExportRoundTrip(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	box, _ := st.CreateBox(ctx, &models.Box{Name: "Iron Yard CrossFit", City: "Austin", Country: "USA"})
	st.CreateMember(ctx, &models.Member{
		BoxID: box.ID, FirstName: "Ada", LastName: "Lovelace", Country: "UK", SubmittedBy: models.ChannelTablet,
	})
	st.CreateBox(ctx, &models.Box{Name: "Harbour Strength"})

	r := setupTestRouter(st, nil)
	w := doRequest(r, http.MethodGet, "/api/export?download=true", "", adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "boxfinder-export.json") {
		t.Errorf("Expected attachment header, got %q", cd)
	}

	var exported []ExportBox
	json.Unmarshal(w.Body.Bytes(), &exported)
	if len(exported) != 2 {
		t.Fatalf("Expected 2 boxes, got %d", len(exported))
	}
	if exported[0].Name != "Harbour Strength" || len(exported[0].Members) != 0 {
		t.Errorf("Unexpected first box: %+v", exported[0])
	}
	if len(exported[1].Members) != 1 || exported[1].Members[0].FirstName != "Ada" {
		t.Errorf("Expected Ada under Iron Yard, got %+v", exported[1].Members)
	}

	// the export seeds an empty directory
	fresh := setupTestStore(t)
	w = doRequest(setupTestRouter(fresh, nil), http.MethodPost, "/api/import", w.Body.String(), adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var result ImportResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Imported != 2 || result.Members != 1 || len(result.Errors) != 0 {
		t.Errorf("Unexpected re-import result: %+v", result)
	}
}

func TestExportSingle(t *testing.T) {
	st := setupTestStore(t)
	box, _ := st.CreateBox(context.Background(), &models.Box{Name: "Iron Yard CrossFit"})
	r := setupTestRouter(st, nil)

	w := doRequest(r, http.MethodGet, "/api/export/"+box.ID, "", adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var exported ExportBox
	json.Unmarshal(w.Body.Bytes(), &exported)
	if exported.ID != box.ID || exported.Members == nil {
		t.Errorf("Unexpected export: %+v", exported)
	}

	w = doRequest(r, http.MethodGet, "/api/export/missing", "", adminToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

package boxes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/boxfinder/pkg/boxfinder/database"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/places"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store/gormstore"
)

type stubPlaces struct {
	found []models.Candidate
	err   error
}

func (s stubPlaces) Lookup(context.Context, string) ([]models.Candidate, error) {
	return s.found, s.err
}

func setupTestStore(t *testing.T) *gormstore.Store {
	db, err := database.Open(":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return gormstore.New(db)
}

func setupTestRouter(st *gormstore.Store, pl PlaceLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(st, pl, nil).RegisterRoutes(r.Group("/api"))
	return r
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func createBox(t *testing.T, router *gin.Engine, name string) models.Box {
	resp := doJSON(router, "POST", "/api/boxes", map[string]any{"name": name, "city": "Austin"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var box models.Box
	json.Unmarshal(resp.Body.Bytes(), &box)
	return box
}

func TestCreateAndSearch(t *testing.T) {
	router := setupTestRouter(setupTestStore(t), nil)

	box := createBox(t, router, "Iron Yard CrossFit")
	if box.ID == "" || box.Approved {
		t.Errorf("Unexpected box: %+v", box)
	}
	createBox(t, router, "Iron Temple")

	resp := doJSON(router, "GET", "/api/boxes?q=iron+yard", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var found []models.Box
	json.Unmarshal(resp.Body.Bytes(), &found)
	if len(found) != 1 || found[0].Name != "Iron Yard CrossFit" {
		t.Errorf("Expected only Iron Yard CrossFit, got %+v", found)
	}

	resp = doJSON(router, "GET", "/api/boxes?q=nothing+here", nil)
	if resp.Body.String() != "[]" {
		t.Errorf("Expected empty array, got %s", resp.Body.String())
	}
}

func TestSearchRejectsBadQuery(t *testing.T) {
	router := setupTestRouter(setupTestStore(t), nil)

	for _, q := range []string{"", "iron%3Byard"} {
		resp := doJSON(router, "GET", "/api/boxes?q="+q, nil)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("q=%q: expected status 400, got %d", q, resp.Code)
		}
	}
}

func TestCreateDuplicateName(t *testing.T) {
	router := setupTestRouter(setupTestStore(t), nil)
	createBox(t, router, "Iron Yard")

	resp := doJSON(router, "POST", "/api/boxes", map[string]any{"name": "IRON YARD!"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d: %s", resp.Code, resp.Body.String())
	}
	var body map[string]any
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["kind"] != "duplicate_name" {
		t.Errorf("Expected duplicate_name kind, got %v", body["kind"])
	}
}

func TestCreateValidation(t *testing.T) {
	router := setupTestRouter(setupTestStore(t), nil)

	resp := doJSON(router, "POST", "/api/boxes", map[string]any{"name": "ab", "website": "not a url"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.Code)
	}
	var body struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if len(body.Fields) != 2 {
		t.Errorf("Expected 2 field errors, got %+v", body)
	}

	resp = doJSON(router, "POST", "/api/boxes", map[string]any{"name": "Iron Yard", "owner": "me"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected unknown field to be rejected, got %d", resp.Code)
	}
}

func TestGetBox(t *testing.T) {
	router := setupTestRouter(setupTestStore(t), nil)
	box := createBox(t, router, "Iron Yard")

	resp := doJSON(router, "GET", "/api/boxes/"+box.ID, nil)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}

	resp = doJSON(router, "GET", "/api/boxes/missing", nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestAddMember(t *testing.T) {
	router := setupTestRouter(setupTestStore(t), nil)
	box := createBox(t, router, "Iron Yard")

	req, _ := http.NewRequest("POST", "/api/boxes/"+box.ID+"/members", bytes.NewBufferString(
		`{"first_name":"Ada","last_name":"Lovelace","country":"UK","email":"ADA@example.com","approved":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var member models.Member
	json.Unmarshal(resp.Body.Bytes(), &member)
	if member.BoxID != box.ID {
		t.Errorf("Expected box id %s, got %s", box.ID, member.BoxID)
	}
	if member.SubmittedBy != models.ChannelTablet {
		t.Errorf("Expected Tablet channel, got %s", member.SubmittedBy)
	}
	if member.Approved {
		t.Error("Expected member to be unapproved")
	}
	if member.Email != "ada@example.com" {
		t.Errorf("Expected normalized email, got %s", member.Email)
	}
}

func TestAddMemberErrors(t *testing.T) {
	router := setupTestRouter(setupTestStore(t), nil)
	box := createBox(t, router, "Iron Yard")

	resp := doJSON(router, "POST", "/api/boxes/"+box.ID+"/members", map[string]any{"first_name": "Ada"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}

	resp = doJSON(router, "POST", "/api/boxes/missing/members", map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "country": "UK",
	})
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPlaces(t *testing.T) {
	st := setupTestStore(t)

	router := setupTestRouter(st, nil)
	if resp := doJSON(router, "GET", "/api/places?q=iron", nil); resp.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 without a lookup, got %d", resp.Code)
	}

	router = setupTestRouter(st, stubPlaces{err: places.ErrNotConfigured})
	if resp := doJSON(router, "GET", "/api/places?q=iron", nil); resp.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 when not configured, got %d", resp.Code)
	}

	router = setupTestRouter(st, stubPlaces{err: errors.New("HTTP error: 500")})
	if resp := doJSON(router, "GET", "/api/places?q=iron", nil); resp.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", resp.Code)
	}

	router = setupTestRouter(st, stubPlaces{found: []models.Candidate{{PlaceID: "p1", Name: "Iron Yard"}}})
	resp := doJSON(router, "GET", "/api/places?q=iron", nil)
	var found []models.Candidate
	json.Unmarshal(resp.Body.Bytes(), &found)
	if resp.Code != http.StatusOK || len(found) != 1 || found[0].PlaceID != "p1" {
		t.Errorf("Unexpected response %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(router, "GET", "/api/places?q=ir", nil)
	if resp.Body.String() != "[]" {
		t.Errorf("Expected short query to return nothing, got %s", resp.Body.String())
	}
}

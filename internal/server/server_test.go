package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/chorequest/internal/clock"
	"github.com/dukerupert/chorequest/internal/database"
	"github.com/dukerupert/chorequest/internal/middleware"
	"github.com/dukerupert/chorequest/internal/shop"
	"github.com/dukerupert/chorequest/internal/store"
	ws "github.com/dukerupert/chorequest/internal/websocket"
)

// 2026-10-19 is a Monday; 19:00 falls in the evening period.
var mondayEvening = time.Date(2026, 10, 19, 19, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	catalog, err := shop.DefaultCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewServices(store.New(db), catalog, clock.Fixed(mondayEvening), logger)
	return New(svc, ws.NewHub(logger), time.Hour, logger).Router()
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set(middleware.SessionHeader, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

// setupAndLogin runs first-run setup with one child and returns an admin
// token and the child's id.
func setupAndLogin(t *testing.T, h http.Handler) (token, childID string) {
	t.Helper()
	rec := do(t, h, "POST", "/api/setup", "", map[string]any{
		"pin":      "1234",
		"children": []map[string]any{{"name": "Ava"}},
	})
	expectStatus(t, rec, http.StatusCreated)

	rec = do(t, h, "POST", "/api/admin/login", "", map[string]string{"pin": "1234"})
	expectStatus(t, rec, http.StatusOK)
	sess := decodeBody[struct {
		Token string `json:"token"`
	}](t, rec)

	rec = do(t, h, "GET", "/api/children", "", nil)
	expectStatus(t, rec, http.StatusOK)
	children := decodeBody[[]struct {
		ID string `json:"id"`
	}](t, rec)
	if len(children) != 1 {
		t.Fatalf("children = %d, want 1", len(children))
	}
	return sess.Token, children[0].ID
}

func TestHealth(t *testing.T) {
	h := setupRouter(t)
	rec := do(t, h, "GET", "/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestSetupAndLogin(t *testing.T) {
	h := setupRouter(t)

	rec := do(t, h, "GET", "/api/setup", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string]bool](t, rec); got["initialized"] {
		t.Fatal("expected uninitialized")
	}

	token, _ := setupAndLogin(t, h)

	rec = do(t, h, "POST", "/api/setup", "", map[string]any{"pin": "9999"})
	expectStatus(t, rec, http.StatusConflict)

	rec = do(t, h, "POST", "/api/admin/login", "", map[string]string{"pin": "0000"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = do(t, h, "GET", "/api/admin/session", token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string]any](t, rec); got["admin"] != true {
		t.Errorf("session = %v, want admin", got)
	}

	rec = do(t, h, "POST", "/api/admin/logout", token, nil)
	expectStatus(t, rec, http.StatusNoContent)
	rec = do(t, h, "POST", "/api/chores", token, map[string]any{"name": "Dishes", "point_value": 5})
	expectStatus(t, rec, http.StatusForbidden)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h := setupRouter(t)
	setupAndLogin(t, h)

	for _, tc := range []struct{ method, path string }{
		{"POST", "/api/chores"},
		{"GET", "/api/completions/pending"},
		{"POST", "/api/admin/reset"},
		{"PUT", "/api/store/schedule"},
	} {
		rec := do(t, h, tc.method, tc.path, "", map[string]any{})
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s status = %d, want %d", tc.method, tc.path, rec.Code, http.StatusForbidden)
		}
	}
}

func TestChoreLifecycle(t *testing.T) {
	h := setupRouter(t)
	token, childID := setupAndLogin(t, h)

	rec := do(t, h, "POST", "/api/chores", token, map[string]any{"name": "Dishes", "icon": "🍽️", "point_value": 5})
	expectStatus(t, rec, http.StatusCreated)
	chore := decodeBody[struct {
		ID string `json:"id"`
	}](t, rec)

	rec = do(t, h, "POST", "/api/assignments", token, map[string]any{
		"chore_id": chore.ID, "child_id": childID, "days_of_week": []int{1}, "time_periods": []string{"evening"},
	})
	expectStatus(t, rec, http.StatusCreated)
	assignment := decodeBody[struct {
		ID string `json:"id"`
	}](t, rec)

	rec = do(t, h, "GET", "/api/children/"+childID+"/board", "", nil)
	expectStatus(t, rec, http.StatusOK)
	board := decodeBody[struct {
		Current []struct {
			Status string `json:"status"`
		} `json:"current"`
		Total int `json:"total"`
	}](t, rec)
	if len(board.Current) != 1 || board.Current[0].Status != "due" || board.Total != 1 {
		t.Fatalf("board = %+v, want one due chore", board)
	}

	rec = do(t, h, "POST", "/api/assignments/"+assignment.ID+"/complete", "", nil)
	expectStatus(t, rec, http.StatusCreated)
	completion := decodeBody[struct {
		ID string `json:"id"`
	}](t, rec)

	rec = do(t, h, "POST", "/api/assignments/"+assignment.ID+"/complete", "", nil)
	expectStatus(t, rec, http.StatusConflict)

	rec = do(t, h, "GET", "/api/completions/pending", token, nil)
	expectStatus(t, rec, http.StatusOK)
	if pending := decodeBody[[]map[string]any](t, rec); len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	rec = do(t, h, "POST", "/api/completions/"+completion.ID+"/verify", token, map[string]int{"points": 8})
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string]any](t, rec); got["status"] != "adjusted" {
		t.Errorf("status = %v, want adjusted", got["status"])
	}

	rec = do(t, h, "DELETE", "/api/completions/"+completion.ID, "", nil)
	expectStatus(t, rec, http.StatusConflict)

	rec = do(t, h, "GET", "/api/children/"+childID, "", nil)
	expectStatus(t, rec, http.StatusOK)
	child := decodeBody[struct {
		IndividualPoints int `json:"individual_points"`
	}](t, rec)
	if child.IndividualPoints != 8 {
		t.Errorf("individual points = %d, want 8", child.IndividualPoints)
	}

	rec = do(t, h, "GET", "/api/family", "", nil)
	expectStatus(t, rec, http.StatusOK)
	snap := decodeBody[struct {
		Family struct {
			Points int `json:"points"`
		} `json:"family"`
	}](t, rec)
	if snap.Family.Points != 8 {
		t.Errorf("family points = %d, want 8", snap.Family.Points)
	}
}

func TestSideQuestFlow(t *testing.T) {
	h := setupRouter(t)
	token, childID := setupAndLogin(t, h)

	rec := do(t, h, "POST", "/api/side-quests", token, map[string]any{"child_id": childID, "name": "Wash car", "point_value": 20})
	expectStatus(t, rec, http.StatusCreated)
	quest := decodeBody[struct {
		ID string `json:"id"`
	}](t, rec)

	rec = do(t, h, "POST", "/api/side-quests/"+quest.ID+"/verify", token, nil)
	expectStatus(t, rec, http.StatusConflict)

	rec = do(t, h, "POST", "/api/side-quests/"+quest.ID+"/done", "", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, "POST", "/api/side-quests/"+quest.ID+"/verify", token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string]any](t, rec); got["status"] != "completed" {
		t.Errorf("status = %v, want completed", got["status"])
	}
}

func TestRewardsAndStore(t *testing.T) {
	h := setupRouter(t)
	token, childID := setupAndLogin(t, h)

	rec := do(t, h, "POST", "/api/rewards", token, map[string]any{"description": "Pizza night", "point_threshold": 100})
	expectStatus(t, rec, http.StatusCreated)
	reward := decodeBody[struct {
		ID string `json:"id"`
	}](t, rec)

	rec = do(t, h, "POST", "/api/rewards/"+reward.ID+"/claim", token, nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, h, "GET", "/api/rewards/next", "", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = do(t, h, "POST", "/api/children/"+childID+"/accessories/glasses-round/purchase", "", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	// Sundays only; the clock says Monday.
	rec = do(t, h, "PUT", "/api/store/schedule", token, map[string]any{"days_of_week": []int{0}, "start_time": "09:00", "end_time": "17:00"})
	expectStatus(t, rec, http.StatusOK)
	rec = do(t, h, "GET", "/api/store", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[map[string]any](t, rec); got["open"] != false {
		t.Errorf("open = %v, want false", got["open"])
	}
	rec = do(t, h, "POST", "/api/children/"+childID+"/accessories/glasses-round/purchase", "", nil)
	expectStatus(t, rec, http.StatusForbidden)

	rec = do(t, h, "POST", "/api/children/"+childID+"/accessories/jetpack/purchase", "", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestNotFound(t *testing.T) {
	h := setupRouter(t)
	token, _ := setupAndLogin(t, h)

	rec := do(t, h, "GET", "/api/children/missing", "", nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec = do(t, h, "DELETE", "/api/children/missing", token, nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec = do(t, h, "POST", "/api/completions/missing/verify", token, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestInvalidJSON(t *testing.T) {
	h := setupRouter(t)
	req := httptest.NewRequest("POST", "/api/setup", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusBadRequest)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bughunt/backend/internal/engine"
)

func adminRouter(t *testing.T) (*chi.Mux, *SQLiteStore) {
	t.Helper()

	store := setupStore(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := store.CreateAdmin(context.Background(), "admin@test.local", string(hash)); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	r := chi.NewRouter()
	addRoutes(r, discardLogger(), store, NewRegistry(NewBroker()), GameConfig{
		PerLevel: map[int]int{1: 1},
		Engine:   engine.DefaultConfig(),
	}, "")
	return r, store
}

func adminLogin(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()

	body, _ := json.Marshal(AdminLoginRequest{Email: "admin@test.local", Password: "hunter2!"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set the admin session cookie")
	return nil
}

func adminDo(t *testing.T, r http.Handler, cookie *http.Cookie, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return w
}

func TestAdminLoginWrongPassword(t *testing.T) {
	r, _ := adminRouter(t)

	body, _ := json.Marshal(AdminLoginRequest{Email: "admin@test.local", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	r, _ := adminRouter(t)

	w := adminDo(t, r, nil, http.MethodGet, "/api/admin/problems", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", w.Code)
	}
}

func TestAdminProblemCRUD(t *testing.T) {
	r, _ := adminRouter(t)
	cookie := adminLogin(t, r)

	var me AdminMeResponse
	adminDo(t, r, cookie, http.MethodGet, "/api/admin/me", nil, &me)
	if me.Email != "admin@test.local" {
		t.Fatalf("me = %+v, want the seeded admin", me)
	}

	create := AdminProblemRequest{
		Language: "go",
		Level:    2,
		Code:     []string{"a := recover()", "panic(a)"},
		Issues: []AdminIssue{{
			ID: "bad-recover", Lines: []int{1}, Category: "bug", Severity: "normal",
			BaseScore: 3, Descriptions: map[string]string{"en": "recover outside defer returns nil"},
		}},
	}

	var detail AdminProblemDetail
	w := adminDo(t, r, cookie, http.MethodPost, "/api/admin/problems", create, &detail)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if detail.ID == "" || len(detail.Issues) != 1 {
		t.Fatalf("detail = %+v, want generated id and one issue", detail)
	}

	var listed []ProblemSummary
	adminDo(t, r, cookie, http.MethodGet, "/api/admin/problems", nil, &listed)
	if len(listed) != 1 || listed[0].IssueCount != 1 {
		t.Fatalf("list = %+v, want one problem with one issue", listed)
	}

	create.Level = 3
	var updated AdminProblemDetail
	w = adminDo(t, r, cookie, http.MethodPut, "/api/admin/problems/"+detail.ID, create, &updated)
	if w.Code != http.StatusOK || updated.Level != 3 {
		t.Fatalf("update: code %d detail %+v, want level 3", w.Code, updated)
	}

	w = adminDo(t, r, cookie, http.MethodDelete, "/api/admin/problems/"+detail.ID, nil, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}

	w = adminDo(t, r, cookie, http.MethodGet, "/api/admin/problems/"+detail.ID, nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestAdminProblemValidation(t *testing.T) {
	r, _ := adminRouter(t)
	cookie := adminLogin(t, r)

	tests := []struct {
		name string
		req  AdminProblemRequest
	}{
		{"bad level", AdminProblemRequest{Language: "go", Level: 4, Code: []string{"x"}}},
		{"no code", AdminProblemRequest{Language: "go", Level: 1}},
		{"line out of range", AdminProblemRequest{Language: "go", Level: 1, Code: []string{"x"},
			Issues: []AdminIssue{{ID: "a", Lines: []int{9}, Category: "bug", Severity: "minor", BaseScore: 1}}}},
		{"duplicate issue id", AdminProblemRequest{Language: "go", Level: 1, Code: []string{"x"},
			Issues: []AdminIssue{
				{ID: "a", Lines: []int{1}, Category: "bug", Severity: "minor", BaseScore: 1},
				{ID: "a", Lines: []int{1}, Category: "bug", Severity: "minor", BaseScore: 1},
			}}},
		{"unknown category", AdminProblemRequest{Language: "go", Level: 1, Code: []string{"x"},
			Issues: []AdminIssue{{ID: "a", Lines: []int{1}, Category: "typo", Severity: "minor", BaseScore: 1}}}},
		{"reserved language", AdminProblemRequest{Language: "all", Level: 1, Code: []string{"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := adminDo(t, r, cookie, http.MethodPost, "/api/admin/problems", tt.req, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestAdminLogoutInvalidatesSession(t *testing.T) {
	r, _ := adminRouter(t)
	cookie := adminLogin(t, r)

	w := adminDo(t, r, cookie, http.MethodPost, "/api/admin/logout", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}

	w = adminDo(t, r, cookie, http.MethodGet, "/api/admin/me", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", w.Code)
	}
}

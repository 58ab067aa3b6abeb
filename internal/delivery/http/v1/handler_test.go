package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/services"
	"github.com/adanyl0v/go-task-manager/internal/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithTTL(t, time.Minute)
}

func newTestServerWithTTL(t *testing.T, accessTokenTTL time.Duration) *testServer {
	t.Helper()

	logger := zerolog.Nop()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "tasks.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := New(
		logger,
		time.UTC,
		services.NewAuthService(logger, store, services.AuthConfig{
			Issuer:          "test",
			SigningKey:      []byte("test-signing-key"),
			AccessTokenTTL:  accessTokenTTL,
			RefreshTokenTTL: time.Hour,
		}),
		services.NewUserService(logger, store),
		services.NewCategoryService(logger, store),
		services.NewTaskService(logger, store, time.UTC),
	)

	router := gin.New()
	RegisterRoutes(router, h)
	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, name, email string) authResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
	return decode[authResponse](t, rec)
}

func (s *testServer) createCategory(t *testing.T, token, name string) categoryResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/categories", token, gin.H{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: status %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[categoryResponse](t, rec)
}

func (s *testServer) createTask(t *testing.T, token string, body gin.H) taskResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/tasks", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[taskResponse](t, rec)
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	paths := []string{"/api/v1/tasks", "/api/v1/categories", "/api/v1/user/profile", "/api/v1/views/today"}
	for _, path := range paths {
		if rec := s.do(t, http.MethodGet, path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: status %d, want 401", path, rec.Code)
		}
	}

	if rec := s.do(t, http.MethodGet, "/api/v1/tasks", "not-a-token", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", rec.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	s.register(t, "Ann", "ann@example.com")
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Other Ann",
		"email":    "ann@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409", rec.Code)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.register(t, "Ann", "ann@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "ann@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, want 401", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "ann@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", rec.Code, rec.Body.String())
	}
	login := decode[authResponse](t, rec)
	if login.AccessToken == "" || login.User.Email != "ann@example.com" {
		t.Fatalf("unexpected login response %+v", login)
	}

	var refreshCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == refreshTokenCookie {
			refreshCookie = cookie
		}
	}
	if refreshCookie == nil {
		t.Fatal("login did not set a refresh token cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(refreshCookie)
	refreshRec := httptest.NewRecorder()
	s.router.ServeHTTP(refreshRec, req)
	if refreshRec.Code != http.StatusOK {
		t.Fatalf("refresh: status %d, body %s", refreshRec.Code, refreshRec.Body.String())
	}

	// The old refresh token was rotated away.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(refreshCookie)
	reuseRec := httptest.NewRecorder()
	s.router.ServeHTTP(reuseRec, req)
	if reuseRec.Code != http.StatusUnauthorized {
		t.Fatalf("reused refresh token: status %d, want 401", reuseRec.Code)
	}
}

func TestAccessTokenCookie(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Ann",
		"email":    "ann@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", rec.Code, rec.Body.String())
	}
	accessCookie := cookieByName(rec, accessTokenCookie)
	if accessCookie == nil || accessCookie.Value == "" {
		t.Fatal("register did not set an access token cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.AddCookie(accessCookie)
	cookieRec := httptest.NewRecorder()
	s.router.ServeHTTP(cookieRec, req)
	if cookieRec.Code != http.StatusOK {
		t.Errorf("cookie only: status %d, body %s", cookieRec.Code, cookieRec.Body.String())
	}
}

func TestExpiredAccessTokenIsRefreshed(t *testing.T) {
	t.Parallel()
	s := newTestServerWithTTL(t, time.Second)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Ann",
		"email":    "ann@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", rec.Code, rec.Body.String())
	}
	expired := decode[authResponse](t, rec).AccessToken
	refreshCookie := cookieByName(rec, refreshTokenCookie)
	if refreshCookie == nil {
		t.Fatal("register did not set a refresh token cookie")
	}

	time.Sleep(2100 * time.Millisecond)

	if rec := s.do(t, http.MethodGet, "/api/v1/tasks", expired, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expired token alone: status %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	req.AddCookie(refreshCookie)
	refreshed := httptest.NewRecorder()
	s.router.ServeHTTP(refreshed, req)
	if refreshed.Code != http.StatusOK {
		t.Fatalf("expired token with refresh cookie: status %d, body %s", refreshed.Code, refreshed.Body.String())
	}

	access := cookieByName(refreshed, accessTokenCookie)
	if access == nil || access.Value == "" || access.Value == expired {
		t.Errorf("access token cookie was not reissued: %+v", access)
	}
	refresh := cookieByName(refreshed, refreshTokenCookie)
	if refresh == nil || refresh.Value == "" || refresh.Value == refreshCookie.Value {
		t.Errorf("refresh token cookie was not rotated: %+v", refresh)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")

	if rec := s.do(t, http.MethodPost, "/api/v1/auth/logout", ann.AccessToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/v1/tasks", ann.AccessToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: status %d, want 401", rec.Code)
	}
}

func TestCategoryCreate(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/categories", ann.AccessToken, gin.H{"name": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty name: status %d, want 400", rec.Code)
	}

	category := s.createCategory(t, ann.AccessToken, "Work")
	if category.UserID != ann.User.ID {
		t.Errorf("userId = %q, want %q", category.UserID, ann.User.ID)
	}
	if category.Name != "Work" {
		t.Errorf("name = %q, want Work", category.Name)
	}
}

func TestNonOwnerIsForbidden(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")
	bob := s.register(t, "Bob", "bob@example.com")

	category := s.createCategory(t, ann.AccessToken, "Home")
	task := s.createTask(t, ann.AccessToken, gin.H{"title": "Water plants"})

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/v1/tasks/" + task.ID, nil},
		{http.MethodPut, "/api/v1/tasks/" + task.ID, gin.H{"title": "mine now"}},
		{http.MethodDelete, "/api/v1/tasks/" + task.ID, nil},
		{http.MethodPost, "/api/v1/tasks/" + task.ID + "/subtasks", gin.H{"title": "sneaky"}},
		{http.MethodGet, "/api/v1/categories/" + category.ID, nil},
		{http.MethodPut, "/api/v1/categories/" + category.ID, gin.H{"name": "mine now"}},
		{http.MethodDelete, "/api/v1/categories/" + category.ID, nil},
	}
	for _, tt := range tests {
		if rec := s.do(t, tt.method, tt.path, bob.AccessToken, tt.body); rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: status %d, want 403", tt.method, tt.path, rec.Code)
		}
	}

	rec := s.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID, ann.AccessToken, nil)
	if got := decode[taskResponse](t, rec); got.Title != "Water plants" {
		t.Errorf("task was modified: %+v", got)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/tasks", bob.AccessToken, nil)
	if got := decode[[]taskResponse](t, rec); len(got) != 0 {
		t.Errorf("bob sees %d tasks, want 0", len(got))
	}
}

func TestTaskWithForeignCategoryIsRejected(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")
	bob := s.register(t, "Bob", "bob@example.com")

	category := s.createCategory(t, ann.AccessToken, "Home")
	rec := s.do(t, http.MethodPost, "/api/v1/tasks", bob.AccessToken, gin.H{
		"title":      "Borrow a category",
		"categoryId": category.ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestInvalidPriorityIsRejected(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/tasks", ann.AccessToken, gin.H{
		"title":    "Ambiguous",
		"priority": "MEDIUM",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("create: status %d, want 400", rec.Code)
	}

	task := s.createTask(t, ann.AccessToken, gin.H{"title": "Plain"})
	if task.Priority != "NORMAL" {
		t.Errorf("default priority = %q, want NORMAL", task.Priority)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/tasks/"+task.ID, ann.AccessToken, gin.H{"priority": "MEDIUM"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("update: status %d, want 400", rec.Code)
	}
}

func TestTaskPartialUpdate(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")
	category := s.createCategory(t, ann.AccessToken, "Errands")

	task := s.createTask(t, ann.AccessToken, gin.H{
		"title":       "Pay rent",
		"description": "before the 5th",
		"priority":    "HIGH",
		"dueDate":     "2030-01-05",
		"categoryId":  category.ID,
	})

	rec := s.do(t, http.MethodPut, "/api/v1/tasks/"+task.ID, ann.AccessToken, gin.H{"completed": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", rec.Code, rec.Body.String())
	}
	got := decode[taskResponse](t, rec)
	if !got.Completed {
		t.Error("completed was not set")
	}
	if got.Title != task.Title || got.Description != task.Description || got.Priority != task.Priority {
		t.Errorf("fields changed: got %+v, want %+v", got, task)
	}
	if got.DueDate == nil || !got.DueDate.Equal(*task.DueDate) {
		t.Errorf("dueDate = %v, want %v", got.DueDate, task.DueDate)
	}
	if got.CategoryID == nil || *got.CategoryID != category.ID || got.Category == nil {
		t.Errorf("category changed: %+v", got)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/tasks/"+task.ID, ann.AccessToken,
		`{"description": null, "dueDate": "", "categoryId": null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: status %d, body %s", rec.Code, rec.Body.String())
	}
	got = decode[taskResponse](t, rec)
	if got.Description != "" || got.DueDate != nil || got.CategoryID != nil || got.Category != nil {
		t.Errorf("fields not cleared: %+v", got)
	}
	if got.Title != "Pay rent" || !got.Completed {
		t.Errorf("untouched fields changed: %+v", got)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/tasks/"+task.ID, ann.AccessToken, `{"title": null}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("clearing title: status %d, want 400", rec.Code)
	}

	long := strings.Repeat("x", 256)
	rec = s.do(t, http.MethodPut, "/api/v1/tasks/"+task.ID, ann.AccessToken, gin.H{"title": long})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("overlong title: status %d, want 400", rec.Code)
	}
	rec = s.do(t, http.MethodPut, "/api/v1/categories/"+category.ID, ann.AccessToken, gin.H{"name": long})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("overlong category name: status %d, want 400", rec.Code)
	}
}

func TestTaskDeleteRemovesSubtasks(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")
	task := s.createTask(t, ann.AccessToken, gin.H{"title": "Move house"})

	rec := s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/subtasks", ann.AccessToken, gin.H{"title": "Pack books"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create subtask: status %d, body %s", rec.Code, rec.Body.String())
	}
	subtask := decode[subtaskResponse](t, rec)

	rec = s.do(t, http.MethodPut, "/api/v1/tasks/"+task.ID+"/subtasks/"+subtask.ID, ann.AccessToken, gin.H{"completed": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("update subtask: status %d", rec.Code)
	}
	if got := decode[subtaskResponse](t, rec); !got.Completed || got.Title != "Pack books" {
		t.Errorf("unexpected subtask %+v", got)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID, ann.AccessToken, nil)
	if got := decode[taskResponse](t, rec); len(got.Subtasks) != 1 {
		t.Fatalf("task has %d subtasks, want 1", len(got.Subtasks))
	}

	rec = s.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID, ann.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if got := decode[successResponse](t, rec); !got.Success {
		t.Error("delete did not report success")
	}

	if rec := s.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID, ann.AccessToken, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", rec.Code)
	}
	rec = s.do(t, http.MethodPut, "/api/v1/tasks/"+task.ID+"/subtasks/"+subtask.ID, ann.AccessToken, gin.H{"title": "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("subtask after delete: status %d, want 404", rec.Code)
	}
}

func TestCategoryDeleteDetachesTasks(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")
	category := s.createCategory(t, ann.AccessToken, "Garden")
	task := s.createTask(t, ann.AccessToken, gin.H{"title": "Mow lawn", "categoryId": category.ID})

	rec := s.do(t, http.MethodDelete, "/api/v1/categories/"+category.ID, ann.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete category: status %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID, ann.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("task vanished with its category: status %d", rec.Code)
	}
	if got := decode[taskResponse](t, rec); got.CategoryID != nil || got.Category != nil {
		t.Errorf("task still references category: %+v", got)
	}
}

func TestProfileUpdate(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")
	s.register(t, "Bob", "bob@example.com")

	rec := s.do(t, http.MethodPut, "/api/v1/user/profile", ann.AccessToken, gin.H{
		"name":  "Ann",
		"email": "bob@example.com",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("taken email: status %d, want 409", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/user/profile", ann.AccessToken, nil)
	if got := decode[userResponse](t, rec); got.Email != "ann@example.com" {
		t.Errorf("email changed to %q", got.Email)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/user/profile", ann.AccessToken, gin.H{
		"name":  "Ann",
		"email": "ann",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed email: status %d, want 400", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/api/v1/user/profile", ann.AccessToken, nil)
	if got := decode[userResponse](t, rec); got.Email != "ann@example.com" {
		t.Errorf("email changed to %q", got.Email)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/user/profile", ann.AccessToken, gin.H{
		"name":     "Ann",
		"email":    "ann@example.com",
		"password": "123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("short password: status %d, want 400", rec.Code)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/user/profile", ann.AccessToken, gin.H{
		"name":  "",
		"email": "ann@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name: status %d, want 400", rec.Code)
	}

	rec = s.do(t, http.MethodPut, "/api/v1/user/profile", ann.AccessToken, gin.H{
		"name":  "Ann Lee",
		"email": "ann.lee@example.com",
		"image": "https://example.com/ann.png",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", rec.Code, rec.Body.String())
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Error("response leaks the password field")
	}
	got := decode[userResponse](t, rec)
	if got.Name != "Ann Lee" || got.Email != "ann.lee@example.com" || got.Image == nil {
		t.Errorf("unexpected profile %+v", got)
	}

	// Absent image keeps the stored one.
	rec = s.do(t, http.MethodPut, "/api/v1/user/profile", ann.AccessToken, gin.H{
		"name":  "Ann",
		"email": "ann.lee@example.com",
	})
	if got := decode[userResponse](t, rec); got.Image == nil || *got.Image != "https://example.com/ann.png" {
		t.Errorf("image = %v, want kept", got.Image)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/auth/session", ann.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("session: status %d", rec.Code)
	}
	if got := decode[authResponse](t, rec); got.User.Name != "Ann" || got.AccessToken == "" {
		t.Errorf("session response %+v", got)
	}
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")
	category := s.createCategory(t, ann.AccessToken, "Work")
	s.createTask(t, ann.AccessToken, gin.H{"title": "Report", "categoryId": category.ID})

	rec := s.do(t, http.MethodDelete, "/api/v1/user/profile", ann.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", rec.Code, rec.Body.String())
	}

	if rec := s.do(t, http.MethodGet, "/api/v1/tasks", ann.AccessToken, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("after deletion: status %d, want 401", rec.Code)
	}

	again := s.register(t, "Ann", "ann@example.com")
	rec = s.do(t, http.MethodGet, "/api/v1/categories", again.AccessToken, nil)
	if got := decode[[]categoryResponse](t, rec); len(got) != 0 {
		t.Errorf("new account sees %d categories, want 0", len(got))
	}
}

func TestViews(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	ann := s.register(t, "Ann", "ann@example.com")

	now := time.Now().UTC()
	today := now.Format(time.RFC3339)
	s.createTask(t, ann.AccessToken, gin.H{"title": "low", "priority": "LOW", "dueDate": today})
	s.createTask(t, ann.AccessToken, gin.H{"title": "urgent", "priority": "URGENT", "dueDate": today})
	s.createTask(t, ann.AccessToken, gin.H{"title": "normal", "priority": "NORMAL", "dueDate": today})
	s.createTask(t, ann.AccessToken, gin.H{"title": "in ten", "dueDate": now.AddDate(0, 0, 10).Format("2006-01-02")})
	s.createTask(t, ann.AccessToken, gin.H{"title": "in three", "dueDate": now.AddDate(0, 0, 3).Format("2006-01-02"), "completed": true})

	rec := s.do(t, http.MethodGet, "/api/v1/views/today?tz=UTC", ann.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("today: status %d, body %s", rec.Code, rec.Body.String())
	}
	day := decode[dayResponse](t, rec)
	var titles []string
	for _, task := range day.Tasks {
		titles = append(titles, task.Title)
	}
	if len(titles) != 3 || titles[0] != "urgent" || titles[1] != "normal" || titles[2] != "low" {
		t.Errorf("today = %v, want [urgent normal low]", titles)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/views/upcoming?tz=UTC", ann.AccessToken, nil)
	upcoming := decode[upcomingResponse](t, rec)
	if len(upcoming.Groups) != 2 {
		t.Fatalf("upcoming has %d groups, want 2", len(upcoming.Groups))
	}
	if upcoming.Groups[0].Tasks[0].Title != "in three" || upcoming.Groups[1].Tasks[0].Title != "in ten" {
		t.Errorf("unexpected upcoming order %+v", upcoming.Groups)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/views/dashboard?q=IN&priority=NORMAL", ann.AccessToken, nil)
	dashboard := decode[dashboardResponse](t, rec)
	if dashboard.Completed != 1 || dashboard.Pending != 4 {
		t.Errorf("counts = %d/%d, want 1/4", dashboard.Completed, dashboard.Pending)
	}
	if len(dashboard.Tasks) != 2 {
		t.Errorf("dashboard returned %d tasks, want 2", len(dashboard.Tasks))
	}

	rec = s.do(t, http.MethodGet, "/api/v1/views/dashboard?priority=%20", ann.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("blank priority: status %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode[dashboardResponse](t, rec); len(got.Tasks) != 5 {
		t.Errorf("blank priority returned %d tasks, want 5", len(got.Tasks))
	}

	if rec := s.do(t, http.MethodGet, "/api/v1/views/dashboard?priority=MEDIUM", ann.AccessToken, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad priority: status %d, want 400", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/v1/views/today?tz=Nowhere/Special", ann.AccessToken, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad tz: status %d, want 400", rec.Code)
	}
}

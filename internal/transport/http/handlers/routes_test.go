package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vedran77/taskly/internal/auth"
	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/repository"
	"github.com/vedran77/taskly/internal/repository/memory"
	"github.com/vedran77/taskly/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("no route to host") }

type testServer struct {
	handler http.Handler
	users   *memory.UserRepo
}

func newTestServer(t *testing.T, store repository.Pinger) *testServer {
	t.Helper()
	mem := memory.NewStore()
	users := memory.NewUserRepo(mem)
	tasks := memory.NewTaskRepo(mem)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	if store == nil {
		store = mem
	}

	return &testServer{
		handler: NewRouter(RouterConfig{
			AuthService: service.NewAuthService(users, tokens, hasher),
			TaskService: service.NewTaskService(tasks),
			UserService: service.NewUserService(users, tasks, hasher),
			Store:       store,
			Env:         "test",
			CORSOrigins: []string{"http://localhost:3000"},
		}),
		users: users,
	}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decoding body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

// signup registers a user and returns its id and token.
func (s *testServer) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		`{"name":"Ada Lovelace","email":"`+email+`","password":"Secret1!"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var data struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	return data.User.ID, data.Token
}

func TestSignupAndLoginFlow(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		`{"name":"Ada Lovelace","email":"ada@example.com","password":"Secret1!"}`)
	if rec.Code != http.StatusCreated || !env.Success || env.Message != "User registered successfully" {
		t.Fatalf("signup = %d %+v", rec.Code, env)
	}
	if bytes.Contains(env.Data, []byte("password")) {
		t.Errorf("signup response leaks password: %s", env.Data)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/signup", "",
		`{"name":"Ada Again","email":"ADA@example.com","password":"Secret1!"}`)
	if rec.Code != http.StatusConflict || env.Success {
		t.Errorf("duplicate signup = %d %+v", rec.Code, env)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"ada@example.com","password":"Secret1!"}`)
	if rec.Code != http.StatusOK || env.Message != "Login successful" {
		t.Fatalf("login = %d %+v", rec.Code, env)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login token missing: %s", env.Data)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/auth/me", data.Token, "")
	if rec.Code != http.StatusOK || !bytes.Contains(env.Data, []byte("ada@example.com")) {
		t.Errorf("me = %d %s", rec.Code, env.Data)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/logout", data.Token, "")
	if rec.Code != http.StatusOK || env.Message != "Logout successful" || env.Data != nil {
		t.Errorf("logout = %d %+v", rec.Code, env)
	}
}

func TestRequestBodyErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "Malformed JSON", body: `{"email":`, wantMsg: "Invalid request body"},
		{name: "Empty body", body: "", wantMsg: "Request body is required"},
		{name: "Weak password", body: `{"name":"Ada","email":"a@example.com","password":"abc"}`, wantMsg: "Password must be at least 6 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", tt.body)
			if rec.Code != http.StatusBadRequest || env.Success || env.Message != tt.wantMsg {
				t.Errorf("got %d %+v, want 400 %q", rec.Code, env, tt.wantMsg)
			}
		})
	}
}

func TestAuthenticateRejections(t *testing.T) {
	s := newTestServer(t, nil)
	userID, token := s.signup(t, "ada@example.com")

	expired, err := auth.NewTokenManager("test-secret", -time.Minute).Issue(userID)
	if err != nil {
		t.Fatal(err)
	}
	forged, err := auth.NewTokenManager("not-the-secret", time.Hour).Issue(userID)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{name: "No header", header: "", wantStatus: http.StatusUnauthorized, wantMsg: "No token provided. Please login to access this resource"},
		{name: "Wrong scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized, wantMsg: "No token provided. Please login to access this resource"},
		{name: "Empty bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantMsg: "Invalid token format"},
		{name: "Expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantMsg: "Token expired. Please login again"},
		{name: "Forged token", header: "Bearer " + forged, wantStatus: http.StatusUnauthorized, wantMsg: "Invalid token. Please login again"},
		{name: "Valid token", header: "Bearer " + token, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantMsg != "" && !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("body = %s, want message %q", rec.Body.String(), tt.wantMsg)
			}
		})
	}
}

func TestDeactivatedUserIsForbidden(t *testing.T) {
	s := newTestServer(t, nil)
	userID, token := s.signup(t, "ada@example.com")

	u, err := s.users.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	u.IsActive = false
	if err := s.users.Update(context.Background(), u); err != nil {
		t.Fatal(err)
	}

	rec, env := s.do(t, http.MethodGet, "/api/v1/auth/me", token, "")
	if rec.Code != http.StatusForbidden || env.Message != "Account is deactivated. Please contact support" {
		t.Errorf("me = %d %+v", rec.Code, env)
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"ada@example.com","password":"Secret1!"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("login status = %d, want 403", rec.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	_, token := s.signup(t, "ada@example.com")

	rec, env := s.do(t, http.MethodPost, "/api/v1/tasks", token, `{"title":"  Buy   milk ","tags":["home",""," shop "]}`)
	if rec.Code != http.StatusCreated || env.Message != "Task created successfully" {
		t.Fatalf("create = %d %+v", rec.Code, env)
	}
	var created struct {
		Task domain.Task `json:"task"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	task := created.Task
	if task.Title != "Buy milk" || task.Status != domain.StatusPending || task.Priority != domain.PriorityMedium || task.Completed {
		t.Errorf("created task = %+v", task)
	}
	if len(task.Tags) != 2 || task.Tags[1] != "shop" {
		t.Errorf("tags = %v", task.Tags)
	}

	rec, env = s.do(t, http.MethodPut, "/api/v1/tasks/"+task.ID, token, `{"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d %+v", rec.Code, env)
	}
	var updated struct {
		Task domain.Task `json:"task"`
	}
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatal(err)
	}
	if !updated.Task.Completed || updated.Task.CompletedAt == nil {
		t.Errorf("completed task = %+v", updated.Task)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/tasks?status=completed", token, "")
	if rec.Code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"count":1`)) {
		t.Errorf("list = %d %s", rec.Code, env.Data)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/tasks?sortBy=password", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("list with bad sort = %d %+v", rec.Code, env)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/tasks/stats", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats = %d %+v", rec.Code, env)
	}
	var stats struct {
		Stats domain.TaskStats `json:"stats"`
	}
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Stats.Total != 1 || stats.Stats.Completed != 1 || stats.Stats.MediumPriority != 1 {
		t.Errorf("stats = %+v", stats.Stats)
	}

	rec, env = s.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID, token, "")
	if rec.Code != http.StatusOK || env.Message != "Task deleted successfully" {
		t.Errorf("delete = %d %+v", rec.Code, env)
	}

	rec, _ = s.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID, token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestTaskIsolationBetweenUsers(t *testing.T) {
	s := newTestServer(t, nil)
	_, alice := s.signup(t, "alice@example.com")
	_, bob := s.signup(t, "bob@example.com")

	_, env := s.do(t, http.MethodPost, "/api/v1/tasks", alice, `{"title":"Alice only"}`)
	var created struct {
		Task domain.Task `json:"task"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	path := "/api/v1/tasks/" + created.Task.ID

	tests := []struct {
		method string
		body   string
	}{
		{method: http.MethodGet},
		{method: http.MethodPut, body: `{"title":"mine now"}`},
		{method: http.MethodDelete},
	}
	for _, tt := range tests {
		rec, env := s.do(t, tt.method, path, bob, tt.body)
		if rec.Code != http.StatusNotFound || env.Message != "Task not found" {
			t.Errorf("%s by another user = %d %+v, want 404", tt.method, rec.Code, env)
		}
	}

	rec, env := s.do(t, http.MethodGet, "/api/v1/tasks", bob, "")
	if rec.Code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"count":0`)) {
		t.Errorf("bob's list = %s", env.Data)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/tasks/not-an-id", alice, "")
	if rec.Code != http.StatusBadRequest || env.Message != "Invalid task ID" {
		t.Errorf("malformed id = %d %+v", rec.Code, env)
	}
}

func TestProfileAndAccount(t *testing.T) {
	s := newTestServer(t, nil)
	_, token := s.signup(t, "ada@example.com")

	rec, env := s.do(t, http.MethodPut, "/api/v1/users/profile", token, `{"bio":"Analyst","avatar":"https://cdn.example.com/a.png"}`)
	if rec.Code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"bio":"Analyst"`)) {
		t.Errorf("update profile = %d %s", rec.Code, env.Data)
	}

	rec, env = s.do(t, http.MethodPut, "/api/v1/users/profile", token, `{"avatar":"not a url"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad avatar = %d %+v", rec.Code, env)
	}

	rec, env = s.do(t, http.MethodPut, "/api/v1/users/password", token, `{"currentPassword":"Wrong1!!","newPassword":"Newer1!!"}`)
	if rec.Code != http.StatusUnauthorized || env.Message != "Current password is incorrect" {
		t.Errorf("wrong current password = %d %+v", rec.Code, env)
	}

	rec, _ = s.do(t, http.MethodPut, "/api/v1/users/password", token, `{"currentPassword":"Secret1!","newPassword":"Newer1!!"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("change password = %d", rec.Code)
	}

	s.do(t, http.MethodPost, "/api/v1/tasks", token, `{"title":"leftover"}`)

	rec, env = s.do(t, http.MethodDelete, "/api/v1/users/account", token, "")
	if rec.Code != http.StatusOK || env.Message != "Account deleted successfully" {
		t.Errorf("delete account = %d %+v", rec.Code, env)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/users/profile", token, "")
	if rec.Code != http.StatusUnauthorized || env.Message != "User not found. Token is invalid" {
		t.Errorf("profile after delete = %d %+v", rec.Code, env)
	}
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	adminID, adminToken := s.signup(t, "admin@example.com")
	userID, userToken := s.signup(t, "ada@example.com")

	u, err := s.users.GetByID(context.Background(), adminID)
	if err != nil {
		t.Fatal(err)
	}
	u.Role = domain.RoleAdmin
	if err := s.users.Update(context.Background(), u); err != nil {
		t.Fatal(err)
	}

	rec, env := s.do(t, http.MethodGet, "/api/v1/admin/users", userToken, "")
	if rec.Code != http.StatusForbidden || env.Message != "Access denied. Admin privileges required" {
		t.Errorf("non-admin list = %d %+v", rec.Code, env)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/admin/users", adminToken, "")
	if rec.Code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"count":2`)) {
		t.Errorf("admin list = %d %s", rec.Code, env.Data)
	}

	rec, env = s.do(t, http.MethodPatch, "/api/v1/admin/users/"+adminID+"/status", adminToken, `{"isActive":false}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self-deactivate = %d %+v", rec.Code, env)
	}

	rec, env = s.do(t, http.MethodPatch, "/api/v1/admin/users/"+userID+"/status", adminToken, `{"isActive":false}`)
	if rec.Code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"isActive":false`)) {
		t.Errorf("deactivate = %d %s", rec.Code, env.Data)
	}

	rec, _ = s.do(t, http.MethodGet, "/api/v1/tasks", userToken, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("deactivated user status = %d, want 403", rec.Code)
	}
}

func TestStatusReportsOptionalAuth(t *testing.T) {
	s := newTestServer(t, nil)
	_, token := s.signup(t, "ada@example.com")

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "Anonymous", token: "", want: `"authenticated":false`},
		{name: "Garbage token is ignored", token: "garbage", want: `"authenticated":false`},
		{name: "Valid token", token: token, want: `"authenticated":true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodGet, "/api/v1", tt.token, "")
			if rec.Code != http.StatusOK || env.Message != "Backend API is running" {
				t.Fatalf("status = %d %+v", rec.Code, env)
			}
			if !bytes.Contains(env.Data, []byte(tt.want)) {
				t.Errorf("data = %s, want %s", env.Data, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rec, _ := newTestServer(t, nil).do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}

	rec, env := newTestServer(t, failingPinger{}).do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusServiceUnavailable || env.Success {
		t.Errorf("health with store down = %d %+v", rec.Code, env)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/nope?x=1", "", "")
	if rec.Code != http.StatusNotFound || env.Message != "Route /api/v1/nope?x=1 not found" {
		t.Errorf("unknown route = %d %+v", rec.Code, env)
	}

	rec, _ = s.do(t, http.MethodPatch, "/api/v1/tasks", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown method = %d, want 404", rec.Code)
	}
}

func TestRequestIDAndCORS(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

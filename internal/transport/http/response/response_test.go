package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vedran77/taskly/internal/domain"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	return body
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "Bad request", err: domain.BadRequest("Invalid task ID"), wantStatus: http.StatusBadRequest, wantMsg: "Invalid task ID"},
		{name: "Unauthenticated", err: domain.Unauthenticated("Invalid email or password"), wantStatus: http.StatusUnauthorized, wantMsg: "Invalid email or password"},
		{name: "Forbidden", err: domain.Forbidden("Account is deactivated. Please contact support"), wantStatus: http.StatusForbidden, wantMsg: "Account is deactivated. Please contact support"},
		{name: "Not found", err: domain.NotFound("Task not found"), wantStatus: http.StatusNotFound, wantMsg: "Task not found"},
		{name: "Conflict", err: domain.Conflict("User with this email already exists"), wantStatus: http.StatusConflict, wantMsg: "User with this email already exists"},
		{name: "Wrapped domain error", err: fmt.Errorf("creating task: %w", domain.Conflict("dup")), wantStatus: http.StatusConflict, wantMsg: "dup"},
		{name: "Plain error hides details", err: errors.New("dial tcp: refused"), wantStatus: http.StatusInternalServerError, wantMsg: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			body := decode(t, rec)
			if body["success"] != false || body["message"] != tt.wantMsg {
				t.Errorf("body = %v", body)
			}
			if _, ok := body["data"]; ok {
				t.Errorf("error envelope carries data: %v", body)
			}
		})
	}
}

func TestErrorDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, domain.Conflict("Duplicate field value entered", "email already exists"))

	body := decode(t, rec)
	errs, ok := body["errors"].([]any)
	if !ok || len(errs) != 1 || errs[0] != "email already exists" {
		t.Errorf("errors = %v", body["errors"])
	}
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Task created successfully", map[string]string{"id": "x"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true || body["message"] != "Task created successfully" || body["data"] == nil {
		t.Errorf("body = %v", body)
	}

	rec = httptest.NewRecorder()
	Success(rec, http.StatusOK, "Logout successful", nil)
	if body := decode(t, rec); body["data"] != nil {
		t.Errorf("nil data should be omitted, got %v", body)
	}
}

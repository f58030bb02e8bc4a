package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hopenest/hopenest-api/internal/repository"
)

const (
	qDeleteUser  = "DELETE FROM users WHERE id = ? AND role != 'super_admin'"
	qUserProfile = "SELECT email, role FROM users WHERE id = ?"
	qListUsers   = "SELECT id, email, password, role, dob, gender FROM users"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewUserHandler(repository.NewUserRepo(db), testLogger()), mock
}

// The protection for super admins lives in the delete predicate: their rows
// never match, so the endpoint reports not-found instead of forbidden.
func TestDeleteSuperAdminReportsNotFound(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectExec(qDeleteUser).WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := newJSONContext(t, http.MethodDelete, "/api/users/1", "")
	c.SetPath("/api/users/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
	if got := decodeBody(t, rec)["message"]; got != "User not found or cannot delete super admin" {
		t.Fatalf("message: got %q", got)
	}
}

func TestDeleteUserSuccess(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectExec(qDeleteUser).WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newJSONContext(t, http.MethodDelete, "/api/users/8", "")
	c.SetPath("/api/users/:id")
	c.SetParamNames("id")
	c.SetParamValues("8")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if decodeBody(t, rec)["success"] != true {
		t.Fatalf("expected success body")
	}
}

func TestDeleteUserStorageError(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectExec(qDeleteUser).WithArgs(8).
		WillReturnError(errors.New("connection reset"))

	c, rec := newJSONContext(t, http.MethodDelete, "/api/users/8", "")
	c.SetPath("/api/users/:id")
	c.SetParamNames("id")
	c.SetParamValues("8")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
}

func TestProfileNotFound(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectQuery(qUserProfile).WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"email", "role"}))

	c, rec := newJSONContext(t, http.MethodGet, "/api/user/99", "")
	c.SetPath("/api/user/:userId")
	c.SetParamNames("userId")
	c.SetParamValues("99")

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
	if got := decodeBody(t, rec)["message"]; got != "User not found" {
		t.Fatalf("message: got %q", got)
	}
}

func TestProfileReturnsPublicFieldsOnly(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectQuery(qUserProfile).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"email", "role"}).
			AddRow("donor@example.com", "donor"))

	c, rec := newJSONContext(t, http.MethodGet, "/api/user/5", "")
	c.SetPath("/api/user/:userId")
	c.SetParamNames("userId")
	c.SetParamValues("5")

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["email"] != "donor@example.com" || body["role"] != "donor" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, present := body["password"]; present {
		t.Fatalf("profile must not expose the password column")
	}
}

func TestListUsers(t *testing.T) {
	h, mock := newUserHandler(t)

	cols := []string{"id", "email", "password", "role", "dob", "gender"}
	mock.ExpectQuery(qListUsers).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "root@hopenest.org", "secret", "super_admin", nil, nil).
			AddRow(5, "donor@example.com", "hunter2", "donor", "1990-05-04", "female"))

	c, rec := newJSONContext(t, http.MethodGet, "/api/users", "")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	list := decodeList(t, rec)
	if len(list) != 2 {
		t.Fatalf("rows: got %d, want 2", len(list))
	}
	if list[0]["role"] != "super_admin" || list[1]["email"] != "donor@example.com" {
		t.Fatalf("unexpected list: %v", list)
	}
}

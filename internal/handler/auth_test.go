package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hopenest/hopenest-api/internal/repository"
)

const (
	qEmailTaken       = "SELECT id FROM users WHERE email = ? LIMIT 1"
	qInsertUser       = "INSERT INTO users (email, password, role, dob, gender) VALUES (?,?,?,?,?)"
	qInsertOrphanage  = "INSERT INTO orphanages (name, location, description, contact, needs, image_url, rating, user_id) VALUES (?,?,?,?,?,?,?,?)"
	qLoginCredentials = "SELECT id, email, password, role, dob, gender FROM users WHERE email = ? AND password = ? LIMIT 1"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewAuthHandler(repository.NewUserRepo(db), repository.NewOrphanageRepo(db), testLogger()), mock
}

func TestSignupValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		msg  string
	}{
		{
			name: "missing required fields",
			body: `{"email":"a@b.c"}`,
			msg:  "Email, password, and role are required",
		},
		{
			name: "donor without dob and gender",
			body: `{"email":"a@b.c","password":"pw","role":"donor"}`,
			msg:  "Date of birth and gender are required for donors",
		},
		{
			name: "admin without orphanage name",
			body: `{"email":"a@b.c","password":"pw","role":"orphanage_admin"}`,
			msg:  "Orphanage name is required for orphanage admins",
		},
		{
			name: "unknown role",
			body: `{"email":"a@b.c","password":"pw","role":"super_admin"}`,
			msg:  `Invalid role. Must be "donor" or "orphanage_admin"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newAuthHandler(t) // no queries expected
			c, rec := newJSONContext(t, http.MethodPost, "/api/signup", tc.body)

			if err := h.Signup(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rec.Code)
			}
			if got := decodeBody(t, rec)["message"]; got != tc.msg {
				t.Fatalf("message: got %q, want %q", got, tc.msg)
			}
		})
	}
}

func TestSignupDonorCreatesOnlyUser(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(qEmailTaken).WithArgs("donor@example.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(qInsertUser).
		WithArgs("donor@example.com", "hunter2", "donor", "1990-05-04", "female").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	c, rec := newJSONContext(t, http.MethodPost, "/api/signup",
		`{"email":"donor@example.com","password":"hunter2","role":"donor","dob":"1990-05-04","gender":"female"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["userId"] != float64(5) {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestSignupAdminCreatesUserAndOrphanage(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(qEmailTaken).WithArgs("admin@home.org").WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(qInsertUser).
		WithArgs("admin@home.org", "pw", "orphanage_admin", nil, nil).
		WillReturnResult(sqlmock.NewResult(9, 1))
	// blank orphanage: contact = admin email, needs = empty list, rating 0
	mock.ExpectExec(qInsertOrphanage).
		WithArgs("Sunrise Home", "", "", "admin@home.org", "[]", nil, 0, 9).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	c, rec := newJSONContext(t, http.MethodPost, "/api/signup",
		`{"email":"admin@home.org","password":"pw","role":"orphanage_admin","orphanageName":"Sunrise Home"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["userId"]; got != float64(9) {
		t.Fatalf("userId: got %v, want 9", got)
	}
}

func TestSignupOrphanageInsertFailureRollsBackUser(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(qEmailTaken).WithArgs("admin@home.org").WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(qInsertUser).
		WithArgs("admin@home.org", "pw", "orphanage_admin", nil, nil).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(qInsertOrphanage).
		WithArgs("Sunrise Home", "", "", "admin@home.org", "[]", nil, 0, 9).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	c, rec := newJSONContext(t, http.MethodPost, "/api/signup",
		`{"email":"admin@home.org","password":"pw","role":"orphanage_admin","orphanageName":"Sunrise Home"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Failed to create orphanage" {
		t.Fatalf("message: got %v", body["message"])
	}
	if body["error"] != "disk full" {
		t.Fatalf("error passthrough: got %v", body["error"])
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(qEmailTaken).WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	c, rec := newJSONContext(t, http.MethodPost, "/api/signup",
		`{"email":"taken@example.com","password":"pw","role":"donor","dob":"1990-01-01","gender":"male"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rec.Code)
	}
	if got := decodeBody(t, rec)["message"]; got != "Email already exists" {
		t.Fatalf("message: got %q", got)
	}
}

// Two concurrent signups can both pass the pre-check; the unique constraint
// on users.email turns the loser's insert into the same 409.
func TestSignupDuplicateEmailRace(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(qEmailTaken).WithArgs("raced@example.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(qInsertUser).
		WithArgs("raced@example.com", "pw", "donor", "1990-01-01", "male").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'raced@example.com' for key 'users.email'"))
	mock.ExpectRollback()

	c, rec := newJSONContext(t, http.MethodPost, "/api/signup",
		`{"email":"raced@example.com","password":"pw","role":"donor","dob":"1990-01-01","gender":"male"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rec.Code)
	}
}

func TestSignupEmailCheckStorageError(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(qEmailTaken).WithArgs("a@b.c").WillReturnError(errors.New("connection reset"))

	c, rec := newJSONContext(t, http.MethodPost, "/api/signup",
		`{"email":"a@b.c","password":"pw","role":"donor","dob":"1990-01-01","gender":"male"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	if got := decodeBody(t, rec)["message"]; got != "Server error while checking email" {
		t.Fatalf("message: got %q", got)
	}
}

func TestLoginValidation(t *testing.T) {
	h, _ := newAuthHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/api/login", `{"email":"a@b.c"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestLoginSuccessReturnsStoredUser(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(qLoginCredentials).
		WithArgs("donor@example.com", "hunter2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "role", "dob", "gender"}).
			AddRow(5, "donor@example.com", "hunter2", "donor", "1990-05-04", "female"))

	c, rec := newJSONContext(t, http.MethodPost, "/api/login",
		`{"email":"donor@example.com","password":"hunter2"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("user missing in body: %v", body)
	}
	if user["email"] != "donor@example.com" || user["role"] != "donor" {
		t.Fatalf("unexpected user: %v", user)
	}
}

// The credential match is exact string equality done by the query, so a
// password differing only in case matches no row and is rejected.
func TestLoginMismatchIsUnauthorized(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(qLoginCredentials).
		WithArgs("donor@example.com", "HUNTER2").
		WillReturnError(sql.ErrNoRows)

	c, rec := newJSONContext(t, http.MethodPost, "/api/login",
		`{"email":"donor@example.com","password":"HUNTER2"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
	if got := decodeBody(t, rec)["message"]; got != "Invalid credentials" {
		t.Fatalf("message: got %q", got)
	}
}

func TestLoginStorageError(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(qLoginCredentials).
		WithArgs("donor@example.com", "pw").
		WillReturnError(errors.New("connection reset"))

	c, rec := newJSONContext(t, http.MethodPost, "/api/login",
		`{"email":"donor@example.com","password":"pw"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
}

package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/accredian/referral-api/internal/auth"
	"github.com/accredian/referral-api/internal/repo"
)

func newAuthHandler(db *sql.DB) (*AuthHandler, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return &AuthHandler{Users: repo.NewUserRepo(db), Tokens: tokens}, tokens
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestAuthHandler_Register(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE username = \$1 OR email = \$2`).
		WithArgs("alice", "a@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash\)`).
		WithArgs("alice", "a@x.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(1, "alice", "a@x.com", "$2a$10$hash"))

	h, tokens := newAuthHandler(db)
	rr := postJSON(t, h.Register, "/register", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("Register status: got %d, want 201", rr.Code)
	}
	var out struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Message != "User registered successfully" {
		t.Errorf("unexpected message: %q", out.Message)
	}
	userID, err := tokens.Verify(out.Token)
	if err != nil || userID != 1 {
		t.Errorf("token should verify to the new user id: id=%d err=%v", userID, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h, _ := newAuthHandler(db)
	for _, payload := range []map[string]string{
		{"email": "a@x.com", "password": "pw"},
		{"username": "alice", "password": "pw"},
		{"username": "alice", "email": "a@x.com"},
	} {
		rr := postJSON(t, h.Register, "/register", payload)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Register(%v) status: got %d, want 400", payload, rr.Code)
		}
		var out map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if out["message"] != ErrMessageMissingFields {
			t.Errorf("unexpected message: %q", out["message"])
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_UsernameConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// Same username, different email: username message wins.
	mock.ExpectQuery(`WHERE username = \$1 OR email = \$2`).
		WithArgs("alice", "other@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(1, "alice", "a@x.com", "$2a$10$hash"))

	h, _ := newAuthHandler(db)
	rr := postJSON(t, h.Register, "/register", map[string]string{
		"username": "alice", "email": "other@x.com", "password": "pw123",
	})

	if rr.Code != http.StatusConflict {
		t.Fatalf("Register status: got %d, want 409", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != "Username already exists" {
		t.Errorf("unexpected message: %q", out["message"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_EmailConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE username = \$1 OR email = \$2`).
		WithArgs("newname", "a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(1, "alice", "a@x.com", "$2a$10$hash"))

	h, _ := newAuthHandler(db)
	rr := postJSON(t, h.Register, "/register", map[string]string{
		"username": "newname", "email": "a@x.com", "password": "pw123",
	})

	if rr.Code != http.StatusConflict {
		t.Fatalf("Register status: got %d, want 409", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != "Email address already exists" {
		t.Errorf("unexpected message: %q", out["message"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_StoreUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE username = \$1 OR email = \$2`).
		WithArgs("alice", "a@x.com").
		WillReturnError(sql.ErrConnDone)

	h, _ := newAuthHandler(db)
	rr := postJSON(t, h.Register, "/register", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Register status: got %d, want 500", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != ErrMessageInternal {
		t.Errorf("500 body must stay generic, got: %q", out["message"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(1, "alice", "a@x.com", hash))

	h, tokens := newAuthHandler(db)
	rr := postJSON(t, h.Login, "/login", map[string]string{"username": "alice", "password": "pw123"})

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200", rr.Code)
	}
	var out struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Message != "Login successful" {
		t.Errorf("unexpected message: %q", out.Message)
	}
	userID, err := tokens.Verify(out.Token)
	if err != nil || userID != 1 {
		t.Errorf("token should verify to the user id: id=%d err=%v", userID, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// Unknown username and wrong password must produce byte-identical 401 bodies.
func TestAuthHandler_Login_NonEnumeration(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword("right-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(1, "alice", "a@x.com", hash))

	h, _ := newAuthHandler(db)

	unknown := postJSON(t, h.Login, "/login", map[string]string{"username": "nobody", "password": "whatever"})
	wrongPass := postJSON(t, h.Login, "/login", map[string]string{"username": "alice", "password": "wrong"})

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("statuses: got %d/%d, want 401/401", unknown.Code, wrongPass.Code)
	}
	if unknown.Body.String() != wrongPass.Body.String() {
		t.Errorf("401 bodies must be identical: %q vs %q", unknown.Body.String(), wrongPass.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h, _ := newAuthHandler(db)
	rr := postJSON(t, h.Login, "/login", map[string]string{"username": "alice"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Login status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h, _ := newAuthHandler(db)
	req := httptest.NewRequest("POST", "/login", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Login status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

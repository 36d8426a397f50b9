package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/accredian/referral-api/internal/auth"
	"github.com/accredian/referral-api/internal/repo"
	"github.com/lib/pq"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  *repo.UserRepo
	Tokens *auth.TokenService
}

// ==========================
// Register (password stored as bcrypt hash; token issued on success)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, ErrMessageMissingFields, http.StatusBadRequest)
		return
	}

	if input.Username == "" || input.Email == "" || input.Password == "" {
		JSONError(w, ErrMessageMissingFields, http.StatusBadRequest)
		return
	}

	existing, err := h.Users.GetByUsernameOrEmail(r.Context(), input.Username, input.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error("register: conflict lookup failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if err == nil {
		// Username takes precedence when both fields collide.
		JSONError(w, conflictMessage(existing.Username == input.Username, existing.Email == input.Email), http.StatusConflict)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		slog.Error("register: hash password failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Username, input.Email, hash)
	if err != nil {
		// A concurrent register can slip past the pre-check; the unique
		// constraint reports it as 23505 and we answer 409 as usual.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			JSONError(w, conflictMessage(pqErr.Constraint == "users_username_key", pqErr.Constraint == "users_email_key"), http.StatusConflict)
			return
		}
		slog.Error("register: create user failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		slog.Error("register: issue token failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSONResponse(w, map[string]string{
		"message": "User registered successfully",
		"token":   token,
	}, http.StatusCreated)
}

func conflictMessage(usernameTaken, emailTaken bool) string {
	switch {
	case usernameTaken:
		return "Username already exists"
	case emailTaken:
		return "Email address already exists"
	default:
		return "Username or email already in use"
	}
}

// ==========================
// Login (same 401 body for unknown username and wrong password)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, ErrMessageMissingFields, http.StatusBadRequest)
		return
	}

	if input.Username == "" || input.Password == "" {
		JSONError(w, ErrMessageMissingFields, http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("login: user lookup failed", "error", err)
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		JSONError(w, ErrMessageBadCredential, http.StatusUnauthorized)
		return
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		JSONError(w, ErrMessageBadCredential, http.StatusUnauthorized)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		slog.Error("login: issue token failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSONResponse(w, map[string]string{
		"message": "Login successful",
		"token":   token,
	}, http.StatusOK)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/crucial707/blogspace/internal/models"
	"github.com/crucial707/blogspace/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Accounts *service.AccountService
}

type sessionResponse struct {
	Message   string              `json:"message"`
	User      *models.User        `json:"user"`
	Blog      *models.BlogSummary `json:"blog"`
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

func newSessionResponse(msg string, s *service.Session) sessionResponse {
	out := sessionResponse{
		Message:   msg,
		User:      s.User,
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
	if s.Blog != nil {
		summary := s.Blog.Summary()
		out.Blog = &summary
	}
	return out
}

// ==========================
// Register (creates the user and their blog)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	session, err := h.Accounts.Register(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSessionResponse("User registered successfully", session))
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	session, err := h.Accounts.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse("Login successful", session))
}

// ==========================
// Change Password
// ==========================
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var input service.ChangePasswordInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.Accounts.ChangePassword(r.Context(), userID, input); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// ==========================
// Delete Account (posts, blog, then user)
// ==========================
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.Accounts.DeleteAccount(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/blogspace/internal/service"
	"github.com/go-chi/chi/v5"
)

type BlogHandler struct {
	Blogs *service.BlogService
}

// ==========================
// Get My Blog
// ==========================
func (h *BlogHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	blog, err := h.Blogs.Mine(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// ==========================
// Get Blog By Subdomain (public)
// ==========================
func (h *BlogHandler) BySubdomain(w http.ResponseWriter, r *http.Request) {
	blog, err := h.Blogs.BySubdomain(r.Context(), chi.URLParam(r, "subdomain"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// ==========================
// Update Blog
// ==========================
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		JSONError(w, "invalid blog id", http.StatusBadRequest)
		return
	}
	var input service.BlogUpdate
	if !decodeJSON(w, r, &input) {
		return
	}

	blog, err := h.Blogs.Update(r.Context(), id, userID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

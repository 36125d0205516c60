package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/blogspace/internal/models"
	"github.com/crucial707/blogspace/internal/service"
	"github.com/go-chi/chi/v5"
)

type PostHandler struct {
	Posts *service.PostService
}

//
// ==========================
// List My Posts
// ==========================
//

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	blog, posts, err := h.Posts.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Blog  *models.BlogSummary `json:"blog"`
		Posts []models.Post       `json:"posts"`
	}{blog, posts})
}

//
// ==========================
// Get Post
// ==========================
//

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := h.Posts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

//
// ==========================
// Create Post
// ==========================
//

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var input service.PostInput
	if !decodeJSON(w, r, &input) {
		return
	}
	post, err := h.Posts.Create(r.Context(), userID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

//
// ==========================
// Update Post
// ==========================
//

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}
	var input service.PostUpdate
	if !decodeJSON(w, r, &input) {
		return
	}
	post, err := h.Posts.Update(r.Context(), id, userID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

//
// ==========================
// Delete Post
// ==========================
//

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if err := h.Posts.Delete(r.Context(), id, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func postID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

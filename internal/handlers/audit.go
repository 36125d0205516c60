package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/crucial707/blogspace/internal/models"
)

// AuditLister reads a user's audit trail.
type AuditLister interface {
	ListByUser(ctx context.Context, userID, limit, offset int) ([]models.AuditEntry, error)
}

// AuditHandler serves the caller's own audit log.
type AuditHandler struct {
	Repo AuditLister
}

// ListActivity returns the caller's recent audit entries. Query: limit (default 50, max 200), offset (default 0).
func (h *AuditHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Repo.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

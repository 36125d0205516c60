package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/blogspace/internal/db"
)

// HealthHandler serves the unauthenticated diagnostics.
type HealthHandler struct {
	DB  *sql.DB
	Now func() time.Time
}

func (h *HealthHandler) now() string {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return now().UTC().Format(time.RFC3339)
}

// Health reports that the process is serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Server is running!",
		"timestamp": h.now(),
	})
}

// TestDB pings the database. It always answers 200; "connected" carries the result.
func (h *HealthHandler) TestDB(w http.ResponseWriter, r *http.Request) {
	status, ok := db.Status(r.Context(), h.DB)
	writeJSON(w, http.StatusOK, map[string]any{
		"database":  status,
		"connected": ok,
		"timestamp": h.now(),
	})
}

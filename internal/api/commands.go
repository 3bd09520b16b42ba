package api

import (
	"net/http"
	"strconv"

	"github.com/auralis-home/auralis-core/internal/audit"
)

// handleRecentCommands returns paginated command history with optional filters.
//
// Query parameters:
//   - zone: filter by zone
//   - action: filter by action (play, stop)
//   - limit: max results (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleRecentCommands(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeNotFound(w, "command history not configured")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Zone:   q.Get("zone"),
		Action: q.Get("action"),
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list command history", "error", err)
		writeInternalError(w, "failed to list command history")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

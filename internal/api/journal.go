package api

import (
	"net/http"
	"strconv"
)

// parseLimit reads the ?limit= query parameter. Zero means "journal default";
// the journal itself clamps the upper bound.
func parseLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, false
	}
	return limit, true
}

// handleRecentFixes returns the most recent journalled fixes, newest first.
func (s *Server) handleRecentFixes(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeNotFound(w, "journal not configured")
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		writeBadRequest(w, "limit must be a non-negative integer")
		return
	}

	fixes, err := s.journal.RecentFixes(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read recent fixes", "error", err)
		writeInternalError(w, "failed to read journal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fixes": fixes,
		"count": len(fixes),
	})
}

// handleRecentFailures returns the most recent journalled fix failures.
func (s *Server) handleRecentFailures(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeNotFound(w, "journal not configured")
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		writeBadRequest(w, "limit must be a non-negative integer")
		return
	}

	failures, err := s.journal.RecentFailures(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read recent failures", "error", err)
		writeInternalError(w, "failed to read journal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"failures": failures,
		"count":    len(failures),
	})
}

// handleRecentConfigs returns the most recent device configuration
// transitions, newest first.
func (s *Server) handleRecentConfigs(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeNotFound(w, "journal not configured")
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		writeBadRequest(w, "limit must be a non-negative integer")
		return
	}

	configs, err := s.journal.RecentConfigs(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read recent config changes", "error", err)
		writeInternalError(w, "failed to read journal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"config_changes": configs,
		"count":          len(configs),
	})
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/locmux/internal/authz"
)

// authorizationRequest is the request body for POST /authorization/request.
type authorizationRequest struct {
	Level string `json:"level"`
}

// handleStatus returns a snapshot of the monitoring manager: authorization
// state, listener count, and the configuration last applied to the device.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.CurrentStatus())
}

// handleRequestAuthorization triggers a permission request at the given
// level. The decision is synchronous; the user's eventual response arrives
// as an authorization event on the WebSocket authorization channel.
func (s *Server) handleRequestAuthorization(w http.ResponseWriter, r *http.Request) {
	var req authorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	var level authz.Level
	switch req.Level {
	case "when_in_use":
		level = authz.WhenInUse
	case "always":
		level = authz.Always
	default:
		writeBadRequest(w, "level must be when_in_use or always")
		return
	}

	if err := s.monitor.RequestAuthorization(level); err != nil {
		writeAuthorizationError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"requested": req.Level,
	})
}

// writeAuthorizationError maps permission precondition failures to HTTP
// status codes. User- or policy-denied states are 409 Conflict: the request
// was well formed but the OS-owned state forbids it.
func writeAuthorizationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrUsageDescriptionMissing):
		writeInternalError(w, err.Error())
	case errors.Is(err, authz.ErrServicesDisabled),
		errors.Is(err, authz.ErrDenied),
		errors.Is(err, authz.ErrRestricted),
		errors.Is(err, authz.ErrWhenInUseOnly):
		writeConflict(w, err.Error())
	default:
		writeInternalError(w, err.Error())
	}
}
